// Package cloudwatch implements the remote log store over AWS CloudWatch
// Logs, plus an in-memory demo store with the same interface.
//
// Client issues exactly one DescribeLogGroups or FilterLogEvents request per
// call and returns the service's next token unchanged; pagination state lives
// with the caller. Credentials and region are resolved by the AWS SDK from
// AuthOptions, AWS_PROFILE, static environment keys or the default chain.
package cloudwatch
