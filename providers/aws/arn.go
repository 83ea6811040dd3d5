package aws

import "regexp"

// The three ARN shapes resources come back in from the tag-search API. Each
// pattern matches the prefix to strip, leaving the bare resource name.
//
//	arn:aws:lambda:us-east-1:111111111111:function:orders-fn  -> orders-fn
//	arn:aws:sns:us-east-1:111111111111:orders-topic           -> orders-topic
//	arn:aws:events:us-east-1:111111111111:rule/orders-rule    -> orders-rule
var (
	arnDefault     = regexp.MustCompile(`^arn:aws:[^:]*:[^:]*:[0-9]*:[^:]*:`)
	arnNoResType   = regexp.MustCompile(`^arn:aws:[^:]*:[^:]*:[0-9]*:`)
	arnNameBySlash = regexp.MustCompile(`^arn:aws:[^:]*:[^:]*:[0-9]*:[^:]*/`)
)

// trimARN strips the matched prefix off arn. Unrecognized strings pass
// through unchanged.
func trimARN(shape *regexp.Regexp, arn string) string {
	return shape.ReplaceAllString(arn, "")
}
