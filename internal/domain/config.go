package domain

// Config represents the railbook configuration loaded from railbook.yaml.
type Config struct {
	Paths PathsConfig
	HTTP  HTTPConfig
	Log   LogConfig
}

type PathsConfig struct {
	DataDir    string
	TrainsFile string
	UsersFile  string
}

type HTTPConfig struct {
	Addr      string
	RateRPS   float64
	RateBurst int
}

type LogConfig struct {
	Debug bool
}

// DefaultConfig provides sane defaults if railbook.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Paths: PathsConfig{
			DataDir:    "data",
			TrainsFile: "trains.json",
			UsersFile:  "users.json",
		},
		HTTP: HTTPConfig{
			Addr:      ":8080",
			RateRPS:   20,
			RateBurst: 40,
		},
	}
}
