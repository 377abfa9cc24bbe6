package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// Customer is the buyer data sent along with a payment session request.
type Customer struct {
	Name  string
	Email string
	Phone string
}

// PaymentGateway opens a payment session for one order and amount.
type PaymentGateway interface {
	CreatePaymentSession(ctx context.Context, orderID string, amount int64, customer Customer) (string, error)
}

// snapClient is the part of snap.Client the gateway uses.
type snapClient interface {
	CreateTransactionToken(req *snap.Request) (string, *midtrans.Error)
}

// MidtransGateway issues Snap tokens through the Midtrans API.
type MidtransGateway struct {
	client  snapClient
	timeout time.Duration
}

func NewMidtransGateway(serverKey string, production bool, timeout time.Duration) (*MidtransGateway, error) {
	if serverKey == "" {
		return nil, errors.New("midtrans server key is empty")
	}

	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}

	var client snap.Client
	client.New(serverKey, env)

	return &MidtransGateway{client: &client, timeout: timeout}, nil
}

func (g *MidtransGateway) CreatePaymentSession(ctx context.Context, orderID string, amount int64, customer Customer) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("invalid gross amount %d", amount)
	}

	name := customer.Name
	if name == "" {
		name = "Customer"
	}
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: name,
			Email: customer.Email,
			Phone: customer.Phone,
		},
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	type result struct {
		token string
		err   error
	}
	// The SDK call is not context aware; the buffered channel lets it finish
	// in the background if the caller gives up first.
	done := make(chan result, 1)
	go func() {
		token, merr := g.client.CreateTransactionToken(req)
		if merr != nil {
			done <- result{err: fmt.Errorf("midtrans: %s", merr.Error())}
			return
		}
		done <- result{token: token}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("midtrans: %w", ctx.Err())
	case res := <-done:
		if res.err != nil {
			return "", res.err
		}
		if res.token == "" {
			return "", errors.New("midtrans: empty snap token")
		}
		return res.token, nil
	}
}

// ErrPaymentDisabled is returned by DisabledGateway.
var ErrPaymentDisabled = errors.New("payment gateway is not configured")

// DisabledGateway rejects every session; only cash-on-delivery orders succeed.
type DisabledGateway struct{}

func (DisabledGateway) CreatePaymentSession(context.Context, string, int64, Customer) (string, error) {
	return "", ErrPaymentDisabled
}
