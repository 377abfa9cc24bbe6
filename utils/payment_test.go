package utils

import (
	"context"
	"testing"
	"time"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSnap struct {
	token string
	err   *midtrans.Error
	delay time.Duration
	got   *snap.Request
}

func (f *fakeSnap) CreateTransactionToken(req *snap.Request) (string, *midtrans.Error) {
	f.got = req
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.token, f.err
}

func TestMidtransGateway_CreatePaymentSession(t *testing.T) {
	fake := &fakeSnap{token: "snap-token-123"}
	gw := &MidtransGateway{client: fake, timeout: time.Second}

	token, err := gw.CreatePaymentSession(context.Background(), "ORD-1", 210000, Customer{Email: "a@example.com"})

	require.NoError(t, err)
	assert.Equal(t, "snap-token-123", token)
	require.NotNil(t, fake.got)
	assert.Equal(t, "ORD-1", fake.got.TransactionDetails.OrderID)
	assert.Equal(t, int64(210000), fake.got.TransactionDetails.GrossAmt)
	assert.Equal(t, "Customer", fake.got.CustomerDetail.FName)
	assert.Equal(t, "a@example.com", fake.got.CustomerDetail.Email)
}

func TestMidtransGateway_SurfacesGatewayError(t *testing.T) {
	fake := &fakeSnap{err: &midtrans.Error{Message: "Access denied due to unauthorized transaction", StatusCode: 401}}
	gw := &MidtransGateway{client: fake}

	_, err := gw.CreatePaymentSession(context.Background(), "ORD-1", 1000, Customer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "midtrans")
}

func TestMidtransGateway_Timeout(t *testing.T) {
	fake := &fakeSnap{token: "late", delay: 200 * time.Millisecond}
	gw := &MidtransGateway{client: fake, timeout: 10 * time.Millisecond}

	_, err := gw.CreatePaymentSession(context.Background(), "ORD-1", 1000, Customer{})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMidtransGateway_RejectsNonPositiveAmount(t *testing.T) {
	gw := &MidtransGateway{client: &fakeSnap{token: "x"}}

	_, err := gw.CreatePaymentSession(context.Background(), "ORD-1", 0, Customer{})
	assert.Error(t, err)
}

func TestNewMidtransGateway_RequiresKey(t *testing.T) {
	_, err := NewMidtransGateway("", false, time.Second)
	assert.Error(t, err)
}

func TestDisabledGateway(t *testing.T) {
	var gw PaymentGateway = DisabledGateway{}

	token, err := gw.CreatePaymentSession(context.Background(), "ORD-1", 1000, Customer{})

	assert.Empty(t, token)
	assert.ErrorIs(t, err, ErrPaymentDisabled)
}
