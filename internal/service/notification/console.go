package notification

import (
	"context"
	"fmt"
)

type Console struct {
}

func NewConsole() Notifier {
	return Console{}
}

func (c Console) Notify(ctx context.Context, message string) error {
	fmt.Println(message)
	return nil
}
