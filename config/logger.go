package config

import "github.com/spf13/viper"

// Logger logger config struct
type Logger struct {
	Level      int
	Format     string
	Output     string
	OutputFile string
}

// getLoggerConfig returns the logger config.
func getLoggerConfig(v *viper.Viper) *Logger {
	return &Logger{
		Level:      v.GetInt("logger.level"),
		Format:     v.GetString("logger.format"),
		Output:     v.GetString("logger.output"),
		OutputFile: v.GetString("logger.output_file"),
	}
}
