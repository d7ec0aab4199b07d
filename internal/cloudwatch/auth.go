package cloudwatch

import (
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// AuthOptions select the AWS region and shared config profile.
type AuthOptions struct {
	Region  string
	Profile string
}

// NewCloudWatchOptions builds the config load options. The profile comes from
// opts or AWS_PROFILE; without one, static keys from AWS_ACCESS_KEY_ID and
// AWS_SECRET_ACCESS_KEY are used when both are set. Anything else is left to
// the SDK's default resolution.
func NewCloudWatchOptions(opts AuthOptions) []func(*config.LoadOptions) error {
	var cfgOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		cfgOpts = append(cfgOpts, config.WithRegion(opts.Region))
	}

	profile := opts.Profile
	if profile == "" {
		profile = os.Getenv("AWS_PROFILE")
	}
	if profile != "" {
		return append(cfgOpts, config.WithSharedConfigProfile(profile))
	}

	key, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if key != "" && secret != "" {
		provider := credentials.NewStaticCredentialsProvider(key, secret, os.Getenv("AWS_SESSION_TOKEN"))
		cfgOpts = append(cfgOpts, config.WithCredentialsProvider(provider))
	}
	return cfgOpts
}
