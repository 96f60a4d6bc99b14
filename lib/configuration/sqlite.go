package configuration

import (
	"database/sql"
	"fmt"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

type Sqlite struct {
	File string `json:"file"`
	// remote libsql url, takes priority over File when set
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

func (config Sqlite) OpenDB() (*sql.DB, error) {
	if config.Url == "" {
		file := config.File
		if file == "" {
			file = ":memory:"
		}
		return sql.Open("sqlite", file)
	}
	if config.AuthToken != "" {
		return sql.Open("libsql", fmt.Sprintf("%s?authToken=%s", config.Url, config.AuthToken))
	}
	return sql.Open("libsql", config.Url)
}
