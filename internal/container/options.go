package container

// Options configures the conformance CLI. The reporter fills the same struct
// from environment variables.
type Options struct {
	BaseURL       string `default:"http://localhost:8080" help:"Base URL of the short URL service under test" short:"u"`
	SeedCode      string `default:"seldev"                help:"Short code the service must already hold"`
	SeedURL       string `default:"https://selenium.dev"  help:"URL stored under the seed code"`
	SeedCount     int    `default:"3"                     help:"Minimum number of entries the service must list"`
	FixturePrefix string `default:"shami"                 help:"Prefix of generated short codes and URLs"`
	Timeout       int    `default:"10"                    help:"HTTP request timeout in seconds"                  short:"t"`
	LogFormat     string `default:"console"               help:"Log format: console or json"`
	RedisAddr     string `default:""                      help:"Redis address; results go to Redis streams when set" short:"r"`
	DatabaseURL   string `default:""                      help:"PostgreSQL URL for storing results"`
	SkipPreflight bool   `default:"false"                 help:"Run scenarios without checking the service first"`

	// ConsumerGroup is the Redis streams consumer group results are read with.
	ConsumerGroup string `default:"conformance-reporter" help:"Redis streams consumer group for result consumers"`
}
