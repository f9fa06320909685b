package config

// Signetfile represents the structure of the signet.yaml configuration file.
type Signetfile struct {
	Key         string            `yaml:"key"`
	PasswordEnv string            `yaml:"passwordEnv" validate:"omitempty,envname"`
	Output      string            `yaml:"output"`
	Extensions  []string          `yaml:"extensions" validate:"omitempty,dive,startswith=.,min=2"`
	Backup      *bool             `yaml:"backup"`
	Log         LogDTO            `yaml:"log"`
	Tools       map[string]string `yaml:"tools" validate:"omitempty,dive,keys,required,endkeys,required"`
}

// LogDTO represents the log section of the configuration.
type LogDTO struct {
	JSON      bool   `yaml:"json"`
	File      string `yaml:"file"`
	MaxSizeMB int    `yaml:"maxSizeMB" validate:"gte=0,lte=1024"`
}
