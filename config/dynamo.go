package config

import (
	"fmt"
	"os"
)

type DynamoConfig struct {
	StoriesTableName string
	UsersTableName   string
}

func GetDynamoConfig() (*DynamoConfig, error) {
	storiesTable := os.Getenv("DYNAMO_STORIES_TABLE_NAME")
	if storiesTable == "" {
		return nil, fmt.Errorf("DYNAMO_STORIES_TABLE_NAME must be set")
	}

	usersTable := os.Getenv("DYNAMO_USERS_TABLE_NAME")
	if usersTable == "" {
		return nil, fmt.Errorf("DYNAMO_USERS_TABLE_NAME must be set")
	}

	return &DynamoConfig{
		StoriesTableName: storiesTable,
		UsersTableName:   usersTable,
	}, nil
}
