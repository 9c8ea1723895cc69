// Package configs loads capi's startup settings.
//
// Settings come from three places, later ones winning:
//
//   - Default(): the values the original deployment used
//   - capi.toml in the working directory, or the file named by --config
//   - command-line flags, applied by the cmd package
//
// Secrets never live in the TOML file. The decryption key and the API keys
// are read through an Environment, which snapshots the process environment
// and overlays the dotenv file named by env_file (".env" by default). A
// value in the dotenv file beats the same name in the process environment.
//
// # Config File
//
//	address = ":8000"
//	data_path = "data.enc"
//	key_variable = "DECRYPTION_KEY"
//	api_key_variable = "CAPI_API_KEY"
//	max_api_keys = 33
//	api_key_header = "X-API-KEY"
//	algorithm = "aes-256-gcm"
//	env_file = ".env"
//	shutdown_timeout = "10s"
package configs
