package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnString(t *testing.T) {
	assert.Equal(t,
		"postgres://postgres@localhost:5432/sport_analytics",
		NewDBPoolParams{DBHost: "localhost", DBPort: "5432", DBName: "sport_analytics"}.connString(),
	)
	assert.Equal(t,
		"postgres://coach:s3cr%3Ft@db:6543/gym?sslmode=disable",
		NewDBPoolParams{
			DBHost:     "db",
			DBPort:     "6543",
			DBName:     "gym",
			DBUser:     "coach",
			DBPassword: "s3cr?t",
			SSLMode:    "disable",
		}.connString(),
	)
}
