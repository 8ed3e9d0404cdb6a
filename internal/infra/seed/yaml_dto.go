package seed

type YAMLSeed struct {
	Trains []YAMLTrain `yaml:"trains"`
}

type YAMLTrain struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
	Seats       int    `yaml:"seats"`
	Available   *int   `yaml:"available"`
}
