package config

import (
	"encoding/json"

	"github.com/quasilyte/gdata"
	"github.com/sirupsen/logrus"
)

const debugSettingsKey = "debug"

var gdataManager *gdata.Manager

// InitPersistence initializes the gdata manager for settings storage
func InitPersistence(appName string) error {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		logrus.Warnf("could not initialize persistence: %v", err)
		return err
	}
	gdataManager = m
	return nil
}

// LoadDebugSettings reads saved debug settings into Debug. Missing data
// leaves the defaults untouched.
func LoadDebugSettings() error {
	if gdataManager == nil {
		return nil
	}

	data, err := gdataManager.LoadItem(debugSettingsKey)
	if err != nil {
		logrus.Warnf("could not load debug settings: %v", err)
		return nil
	}
	if len(data) == 0 {
		return nil
	}

	var saved DebugConfig
	if err := json.Unmarshal(data, &saved); err != nil {
		logrus.Warnf("could not parse saved debug settings: %v", err)
		return err
	}
	Debug = saved
	return nil
}

// SaveDebugSettings writes Debug to disk
func SaveDebugSettings() error {
	if gdataManager == nil {
		return nil
	}

	data, err := json.Marshal(Debug)
	if err != nil {
		return err
	}
	if err := gdataManager.SaveItem(debugSettingsKey, data); err != nil {
		logrus.Warnf("could not save debug settings: %v", err)
		return err
	}
	return nil
}
