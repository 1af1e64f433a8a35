package src

import (
	"fmt"
	"luna_chat/src/model"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	LogConfig          model.LogConfig          `envconfig:""`
	ServerConfig       model.ServerConfig       `envconfig:""`
	LLMConfig          model.LLMConfig          `envconfig:""`
	ConversationConfig model.ConversationConfig `envconfig:""`
	PersonaConfig      model.PersonaConfig      `envconfig:""`
	KeepAliveConfig    model.KeepAliveConfig    `envconfig:""`
}

func LoadConfig() (*Config, error) {
	var config Config
	err := envconfig.Process("", &config)
	if err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %v", err)
	}

	return &config, nil
}
