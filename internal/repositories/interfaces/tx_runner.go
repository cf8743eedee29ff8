package interfaces

import "context"

// TxRunner executes fn inside one store transaction. Every repository call
// made with the context passed to fn joins the same transaction; if fn
// returns an error the transaction aborts and none of its writes persist.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) (interface{}, error)) (interface{}, error)
}
