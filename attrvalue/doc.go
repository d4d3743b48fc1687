// Package attrvalue defines the tags of DynamoDB style attribute values
// and converts tagged records to and from the AWS SDK representation.
//
// Tagged records are plain maps, as produced by codec or decoded from
// JSON. The SDK form uses the types.AttributeValue union:
//
//	tagged                      SDK
//	{"S": "x"}                  &types.AttributeValueMemberS{Value: "x"}
//	{"B": "aGk="}               &types.AttributeValueMemberB{Value: []byte("hi")}
//	{"L": [{"N": "1"}]}         &types.AttributeValueMemberL{...}
//
// Binary payloads are base64 text in tagged form and raw bytes in SDK
// form.
package attrvalue
