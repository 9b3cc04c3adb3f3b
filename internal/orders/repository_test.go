package orders

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder() *Order {
	return &Order{
		ID:            uuid.New(),
		TRN:           "TRN-20260901-deadbeef",
		UserID:        "user1",
		CustomerName:  "Arul Raj",
		Email:         "arul@example.com",
		Phone:         "9876543210",
		Address:       "12 Church Street",
		City:          "Chennai",
		State:         "Tamil Nadu",
		Country:       "India",
		Pincode:       "600001",
		Subtotal:      490,
		Packaging:     60,
		CGST:          12.25,
		SGST:          12.25,
		Total:         574.50,
		Currency:      "INR",
		PaymentMethod: "razorpay",
		PaymentID:     "pay_abc",
		Status:        StatusPaid,
		Items: []Item{
			{BookID: "b1", Title: "The Upper Room", Quantity: 2, Price: 120},
			{BookID: "b2", Title: "Daily Bread", Quantity: 1, Price: 250},
		},
	}
}

func TestCreateOrderWithItems_CommitsItemsInCartOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	order := testOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(order.ID, 0, "b1", "The Upper Room", 2, 120.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(order.ID, 1, "b2", "Daily Bread", 1, 250.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewPostgresRepository(db)
	require.NoError(t, repo.CreateOrderWithItems(context.Background(), order))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderWithItems_DuplicateTRN(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	repo := NewPostgresRepository(db)
	err = repo.CreateOrderWithItems(context.Background(), testOrder())
	assert.ErrorIs(t, err, ErrDuplicateTRN)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderWithItems_ItemFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	repo := NewPostgresRepository(db)
	err = repo.CreateOrderWithItems(context.Background(), testOrder())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func orderColumns() []string {
	return []string{
		"id", "trn", "user_id", "customer_name", "email", "phone", "address", "city", "state",
		"country", "pincode", "subtotal", "packaging_charge", "cgst", "sgst", "igst", "total",
		"currency", "payment_method", "payment_id", "status", "created_at", "updated_at",
	}
}

func TestGetOrderByTRN(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	o := testOrder()
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE trn").
		WithArgs(o.TRN).
		WillReturnRows(sqlmock.NewRows(orderColumns()).AddRow(
			o.ID, o.TRN, o.UserID, o.CustomerName, o.Email, o.Phone, o.Address, o.City, o.State,
			o.Country, o.Pincode, o.Subtotal, o.Packaging, o.CGST, o.SGST, o.IGST, o.Total,
			o.Currency, o.PaymentMethod, o.PaymentID, string(o.Status), now, now,
		))
	mock.ExpectQuery("SELECT (.+) FROM order_items").
		WithArgs(o.ID).
		WillReturnRows(sqlmock.NewRows([]string{"book_id", "title", "quantity", "price"}).
			AddRow("b1", "The Upper Room", 2, 120.0).
			AddRow("b2", "Daily Bread", 1, 250.0))

	repo := NewPostgresRepository(db)
	got, err := repo.GetOrderByTRN(context.Background(), o.TRN)
	require.NoError(t, err)

	assert.Equal(t, o.TRN, got.TRN)
	assert.Equal(t, StatusPaid, got.Status)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "b1", got.Items[0].BookID) // cart order preserved
	assert.Equal(t, "b2", got.Items[1].BookID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderByTRN_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE trn").
		WillReturnRows(sqlmock.NewRows(orderColumns()))

	repo := NewPostgresRepository(db)
	_, err = repo.GetOrderByTRN(context.Background(), "TRN-missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	mock.ExpectExec("UPDATE orders SET status").
		WithArgs(string(StatusCancelled), id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgresRepository(db)
	require.NoError(t, repo.UpdateStatus(context.Background(), id, StatusCancelled))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	mock.ExpectExec("UPDATE orders SET status").
		WithArgs(string(StatusShipped), id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewPostgresRepository(db)
	err = repo.UpdateStatus(context.Background(), id, StatusShipped)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
