package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxRunner implements ports.UnitOfWork on top of MongoDB sessions. Every
// validate→mutate→persist sequence runs inside one transaction; when fn
// returns an error the transaction is aborted and no write survives.
type TxRunner struct {
	client *mongo.Client
}

func NewTxRunner(client *mongo.Client) *TxRunner {
	return &TxRunner{client: client}
}

// WithinTx runs fn inside a single MongoDB transaction. The session
// context passed to fn carries the transaction, so repository calls made
// through it are part of the same atomic unit.
func (r *TxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
