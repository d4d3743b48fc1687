// Package ndjson reads and writes newline delimited JSON record streams,
// the format of DynamoDB table exports.
//
// Input may be compressed. Open and NewReader detect the codec from the
// first bytes of the stream:
//
//	1f 8b          gzip
//	28 b5 2f fd    zstd
//	04 22 4d 18    lz4 frame
//
// anything else is read as plain text. Numbers decode as json.Number so
// N payloads and integer columns keep their exact text.
package ndjson
