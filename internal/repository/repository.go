package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	Photograph PhotographRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Photograph: NewPhotographRepository(db),
	}
}
