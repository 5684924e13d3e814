package msg

// config
const (
	// MissingTarget indicates that no deployment endpoint could be determined.
	MissingTarget = "no deployment target specified: set target.url, --url or --app"
	// InvalidTargetURL indicates a malformed deployment endpoint.
	InvalidTargetURL = "invalid deployment target url %q: %v"
	// InvalidConfigFile indicates that the config file is not a zipdeploy config.
	InvalidConfigFile = "invalid zipdeploy config: apiVersion and kind are required"
	// InvalidSendCondition indicates an unknown notifications.slack.send value.
	InvalidSendCondition = "invalid value for notifications.slack.send: %q (expected one of: always, fail, pass, never)"
	// MissingSource indicates a source directory that does not exist or is not a directory.
	MissingSource = "source %q is not a directory"
)

// credentials
const (
	// EmptyUsername asks user to type a username
	EmptyUsername = "you need to type a username"
	// EmptyPassword asks user to type a password
	EmptyPassword = "you need to type a password"
	// EmptyCredentials indicates no credentials
	EmptyCredentials = "no credentials available"
	// InvalidCredentials indicates invalid credentials
	InvalidCredentials = "invalid credentials provided"
)

// output
const (
	// UnknownOutputFormat indicates an unsupported --out value.
	UnknownOutputFormat = "unknown output format %q"
)
