package storage

import (
	"database/sql"
	"log"

	_ "github.com/lib/pq"

	"github.com/carson-networks/cashbook-server/internal/config"
	"github.com/carson-networks/cashbook-server/internal/storage/account"
	"github.com/carson-networks/cashbook-server/internal/storage/notification"
	"github.com/carson-networks/cashbook-server/internal/storage/transaction"
	"github.com/carson-networks/cashbook-server/internal/storage/user"
)

type Storage struct {
	DB            *sql.DB
	Users         user.ITable
	Accounts      account.ITable
	Members       account.IMemberTable
	Transactions  transaction.ITable
	Notifications notification.ITable
}

func NewStorage(env *config.Config) *Storage {
	connStr := "postgres://" + env.PostgresUsername + ":" +
		env.PostgresPassword + "@" + env.PostgresAddress + ":" +
		env.PostgresPort + "/" + env.PostgresDB + "?sslmode=disable"

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal(err)
	}

	return &Storage{
		DB:            db,
		Users:         user.NewTable(db),
		Accounts:      account.NewTable(db),
		Members:       account.NewMemberTable(db),
		Transactions:  transaction.NewTable(db),
		Notifications: notification.NewTable(db),
	}
}
