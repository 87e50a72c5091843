package models

import (
	"log"

	"bitbucket.org/mmdatafocus/cardrecon_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Account{}, &Movement{}, &Promotion{},
		&ReconciliationRow{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
