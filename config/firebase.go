package config

import (
	"fmt"
	"os"
)

type FirebaseConfig struct {
	CredentialsFile string
}

func GetFirebaseConfig() (*FirebaseConfig, error) {
	credentialsFile := os.Getenv("FIREBASE_CREDENTIALS_FILE")
	if credentialsFile == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_FILE must be set")
	}

	return &FirebaseConfig{
		CredentialsFile: credentialsFile,
	}, nil
}
