package api

import (
	"sync"

	"github.com/alex-pricope/election-voting-system/logging"
	"github.com/spf13/viper"
)

type Config struct {
	StorageConfig
	ServerConfig
	ResultsConfig
}

type StorageConfig struct {
	TableNameElections  string
	TableNamePositions  string
	TableNameCandidates string
	TableNameVotes      string
	TableNameVoters     string
}

type ServerConfig struct {
	Port int
}

type ResultsConfig struct {
	RefreshIntervalSeconds int
}

var settingsOnce sync.Once

func ReadConfig() *Config {

	var conf = &Config{
		StorageConfig: StorageConfig{
			TableNameElections:  viper.GetString("storage.TableNameElections"),
			TableNamePositions:  viper.GetString("storage.TableNamePositions"),
			TableNameCandidates: viper.GetString("storage.TableNameCandidates"),
			TableNameVotes:      viper.GetString("storage.TableNameVotes"),
			TableNameVoters:     viper.GetString("storage.TableNameVoters"),
		},
		ServerConfig: ServerConfig{
			Port: getIntOrDefault("server.port", 8080),
		},
		ResultsConfig: ResultsConfig{
			RefreshIntervalSeconds: getIntOrDefault("results.RefreshIntervalSeconds", 5),
		},
	}

	settingsOnce.Do(func() {
		logging.Log.Print("Reading settings!")
	})

	return conf
}

func getIntOrDefault(name string, def int) int {
	if viper.IsSet(name) {
		v := viper.GetInt(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}
