package aws

import (
	"regexp"
	"testing"
)

func TestTrimARN(t *testing.T) {
	tests := []struct {
		name  string
		shape *regexp.Regexp
		arn   string
		want  string
	}{
		{
			name:  "lambda function strips through resource type",
			shape: arnDefault,
			arn:   "arn:aws:lambda:us-east-1:111111111111:function:orders-fn",
			want:  "orders-fn",
		},
		{
			name:  "state machine strips through resource type",
			shape: arnDefault,
			arn:   "arn:aws:states:us-east-1:111111111111:stateMachine:orders-flow",
			want:  "orders-flow",
		},
		{
			name:  "sns topic strips through account only",
			shape: arnNoResType,
			arn:   "arn:aws:sns:us-east-1:111111111111:orders-topic",
			want:  "orders-topic",
		},
		{
			name:  "sqs queue strips through account only",
			shape: arnNoResType,
			arn:   "arn:aws:sqs:us-east-1:111111111111:orders-queue",
			want:  "orders-queue",
		},
		{
			name:  "event rule strips through last slash",
			shape: arnNameBySlash,
			arn:   "arn:aws:events:us-east-1:111111111111:rule/orders-rule",
			want:  "orders-rule",
		},
		{
			name:  "non-arn passes through",
			shape: arnDefault,
			arn:   "orders-fn",
			want:  "orders-fn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := trimARN(tt.shape, tt.arn)
			if got != tt.want {
				t.Errorf("trimARN() = %v, want %v", got, tt.want)
			}
		})
	}
}
