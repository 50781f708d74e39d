package user

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/ledger-server/internal/storage/dberr"
)

var _ IWriter = (*Writer)(nil)

type Writer struct {
	Reader
}

func NewWriter(exec bob.Executor) *Writer {
	return &Writer{Reader: Reader{exec: exec}}
}

func (w *Writer) Insert(ctx context.Context, create *UserCreate) (*User, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	q := psql.Insert(
		im.Into(tableName, "id", "name", "email"),
		im.Values(psql.Arg(id), psql.Arg(create.Name), psql.Arg(create.Email)),
		im.Returning("id", "name", "email", "created_at"),
	)
	inserted, err := bob.One(ctx, w.exec, q, scan.StructMapper[row]())
	if err != nil {
		return nil, dberr.Translate(err)
	}
	return rowToUser(inserted), nil
}
