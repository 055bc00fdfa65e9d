package models

import "time"

type Organization struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Website   *string   `db:"website"`
	OwnerRef  *string   `db:"owner_ref"`
	CreatedAt time.Time `db:"created_at"`
}
