package connection

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// WithSQLTx returns a gorm handle whose statements run on tx. Services own
// the *sql.Tx; repositories only borrow it through WithTx.
func WithSQLTx(db *gorm.DB, tx *sql.Tx) *gorm.DB {
	if tx == nil {
		return db
	}
	session := db.Session(&gorm.Session{NewDB: true, Context: context.Background()})
	session.Statement.ConnPool = tx
	return session
}
