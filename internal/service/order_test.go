package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	mailMocks "printapi/internal/mail/mocks"
	"printapi/internal/model"
	"printapi/internal/payment"
	paymentMocks "printapi/internal/payment/mocks"
	"printapi/internal/repository"
	repoMocks "printapi/internal/repository/mocks"
	"printapi/internal/storage"
	storeMocks "printapi/internal/storage/mocks"
)

type orderDeps struct {
	orders        *repoMocks.MockOrderRepository
	products      *repoMocks.MockProductRepository
	users         *repoMocks.MockUserRepository
	notifications *repoMocks.MockNotificationRepository
	jobs          *repoMocks.MockJobRepository
	store         *storeMocks.MockStorage
	gateway       *paymentMocks.MockGateway
	mailer        *mailMocks.MockMailer
}

func newOrderService(t *testing.T) (OrderService, *orderDeps) {
	t.Helper()
	d := &orderDeps{
		orders:        new(repoMocks.MockOrderRepository),
		products:      new(repoMocks.MockProductRepository),
		users:         new(repoMocks.MockUserRepository),
		notifications: new(repoMocks.MockNotificationRepository),
		jobs:          new(repoMocks.MockJobRepository),
		store:         new(storeMocks.MockStorage),
		gateway:       new(paymentMocks.MockGateway),
		mailer:        new(mailMocks.MockMailer),
	}
	svc := NewOrderService(
		d.orders, d.products, d.users, d.notifications, d.jobs,
		d.store, d.gateway, d.mailer, time.Minute,
	)
	return svc, d
}

func (d *orderDeps) assertExpectations(t *testing.T) {
	t.Helper()
	d.orders.AssertExpectations(t)
	d.products.AssertExpectations(t)
	d.users.AssertExpectations(t)
	d.notifications.AssertExpectations(t)
	d.jobs.AssertExpectations(t)
	d.store.AssertExpectations(t)
	d.gateway.AssertExpectations(t)
	d.mailer.AssertExpectations(t)
}

func pendingInitiation(orderRef string) payment.Initiation {
	return payment.Initiation{TransactionID: "TEST-" + orderRef, Status: model.PaymentPending}
}

func smallFormatInput() CreateOrderInput {
	return CreateOrderInput{
		Configuration: model.PrintConfiguration{
			FormatType:  model.FormatSmall,
			SmallFormat: model.SizeA4,
			Quantity:    20,
			ProductID:   "p1",
		},
		PaymentPhone:  "0612345678",
		PaymentMethod: "mobile_money",
	}
}

func flyerProduct() *model.Product {
	return &model.Product{
		ID:            "p1",
		Name:          "Flyers",
		BasePrice:     decimal.NewFromInt(500),
		DefaultFormat: model.SizeA4,
	}
}

func TestOrderService_Create(t *testing.T) {
	ctx := context.Background()
	user := model.Actor{UserID: "u1", Role: model.RoleUser}

	t.Run("happy path without file", func(t *testing.T) {
		svc, d := newOrderService(t)

		d.products.On("FindByID", ctx, "p1").Return(flyerProduct(), nil)
		d.gateway.On("Initiate", ctx, "0612345678", mock.MatchedBy(func(amount decimal.Decimal) bool {
			return amount.Equal(decimal.NewFromInt(15000))
		}), mock.Anything).Return(pendingInitiation("ref"), nil)
		d.orders.On("Create", ctx, mock.MatchedBy(func(o *model.Order) bool {
			return o.UserID == "u1" &&
				o.Status == model.StatusPending &&
				o.TotalAmount.Equal(decimal.NewFromInt(15000)) &&
				o.Payment != nil &&
				o.Payment.Status == model.PaymentPending &&
				o.Configuration != nil
		})).Return(func(ctx context.Context, o *model.Order) *model.Order { return o }, nil)
		d.jobs.On("Enqueue", ctx, mock.MatchedBy(func(job *model.ScheduledJob) bool {
			return strings.Contains(string(job.Payload), "order_id")
		})).Return(nil)

		res, err := svc.Create(ctx, user, smallFormatInput())
		require.NoError(t, err)
		assert.True(t, res.ConfirmationScheduled)
		assert.Equal(t, model.StatusPending, res.Order.Status)
		d.assertExpectations(t)
		d.store.AssertNotCalled(t, "Put")
	})

	t.Run("happy path with file", func(t *testing.T) {
		svc, d := newOrderService(t)

		in := smallFormatInput()
		in.File = &FileUpload{
			Reader:        strings.NewReader("%PDF-1.4"),
			Name:          "brochure.pdf",
			Size:          8,
			ResolutionDPI: 300,
			ColorProfile:  "CMJN",
		}

		d.products.On("FindByID", ctx, "p1").Return(flyerProduct(), nil)
		d.store.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "orders/") && strings.HasSuffix(key, ".pdf")
		}), in.File.Reader, storage.PutObjectOptions{
			Size:        8,
			ContentType: "application/pdf",
			Metadata:    map[string]string{"original-filename": "brochure.pdf"},
		}).Return(storage.ObjectInfo{Key: "orders/o1/f1.pdf", Size: 8}, nil)
		d.gateway.On("Initiate", ctx, "0612345678", mock.Anything, mock.Anything).
			Return(pendingInitiation("ref"), nil)
		d.orders.On("Create", ctx, mock.MatchedBy(func(o *model.Order) bool {
			return len(o.Files) == 1 && o.Files[0].StoragePath == "orders/o1/f1.pdf"
		})).Return(func(ctx context.Context, o *model.Order) *model.Order { return o }, nil)
		d.jobs.On("Enqueue", ctx, mock.Anything).Return(nil)

		res, err := svc.Create(ctx, user, in)
		require.NoError(t, err)
		assert.True(t, res.ConfirmationScheduled)
		d.assertExpectations(t)
	})

	t.Run("invalid file rejected before storage", func(t *testing.T) {
		svc, d := newOrderService(t)

		in := smallFormatInput()
		in.File = &FileUpload{
			Reader:        strings.NewReader("x"),
			Name:          "design.png",
			ResolutionDPI: 300,
			ColorProfile:  "CMJN",
		}
		d.products.On("FindByID", ctx, "p1").Return(flyerProduct(), nil)

		_, err := svc.Create(ctx, user, in)
		var verr *model.ValidationError
		assert.ErrorAs(t, err, &verr)
		d.store.AssertNotCalled(t, "Put")
		d.orders.AssertNotCalled(t, "Create")
	})

	t.Run("invalid configuration rejected", func(t *testing.T) {
		svc, d := newOrderService(t)

		in := smallFormatInput()
		in.Configuration.Quantity = 5 // below A4 minimum

		_, err := svc.Create(ctx, user, in)
		var verr *model.ValidationError
		assert.ErrorAs(t, err, &verr)
		d.products.AssertNotCalled(t, "FindByID")
	})

	t.Run("unknown product", func(t *testing.T) {
		svc, d := newOrderService(t)

		d.products.On("FindByID", ctx, "p1").Return(nil, sql.ErrNoRows)

		_, err := svc.Create(ctx, user, smallFormatInput())
		assert.ErrorIs(t, err, ErrNotFound)
		d.orders.AssertNotCalled(t, "Create")
	})

	t.Run("unpriceable configuration falls back to fixed amount", func(t *testing.T) {
		svc, d := newOrderService(t)

		broken := flyerProduct()
		broken.BasePrice = decimal.NewFromInt(-1)

		d.products.On("FindByID", ctx, "p1").Return(broken, nil)
		d.gateway.On("Initiate", ctx, mock.Anything, mock.MatchedBy(func(amount decimal.Decimal) bool {
			return amount.Equal(decimal.NewFromInt(10000))
		}), mock.Anything).Return(pendingInitiation("ref"), nil)
		d.orders.On("Create", ctx, mock.MatchedBy(func(o *model.Order) bool {
			return o.TotalAmount.Equal(decimal.NewFromInt(10000))
		})).Return(func(ctx context.Context, o *model.Order) *model.Order { return o }, nil)
		d.jobs.On("Enqueue", ctx, mock.Anything).Return(nil)

		res, err := svc.Create(ctx, user, smallFormatInput())
		require.NoError(t, err)
		assert.True(t, res.Order.TotalAmount.Equal(decimal.NewFromInt(10000)))
		d.assertExpectations(t)
	})

	t.Run("db failure rolls back stored file", func(t *testing.T) {
		svc, d := newOrderService(t)

		in := smallFormatInput()
		in.File = &FileUpload{
			Reader:        strings.NewReader("%PDF-1.4"),
			Name:          "brochure.pdf",
			Size:          8,
			ResolutionDPI: 150,
			ColorProfile:  "CMYK",
		}

		d.products.On("FindByID", ctx, "p1").Return(flyerProduct(), nil)
		d.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{Key: "orders/o1/f1.pdf"}, nil)
		d.gateway.On("Initiate", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(pendingInitiation("ref"), nil)
		d.orders.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
		d.store.On("Delete", ctx, "orders/o1/f1.pdf").Return(nil)

		_, err := svc.Create(ctx, user, in)
		assert.ErrorContains(t, err, "persist order")
		d.assertExpectations(t)
		d.jobs.AssertNotCalled(t, "Enqueue")
	})

	t.Run("gateway failure rolls back stored file", func(t *testing.T) {
		svc, d := newOrderService(t)

		in := smallFormatInput()
		in.File = &FileUpload{
			Reader:        strings.NewReader("%PDF-1.4"),
			Name:          "brochure.pdf",
			Size:          8,
			ResolutionDPI: 300,
			ColorProfile:  "CMJN",
		}

		d.products.On("FindByID", ctx, "p1").Return(flyerProduct(), nil)
		d.store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{Key: "orders/o1/f1.pdf"}, nil)
		d.gateway.On("Initiate", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(payment.Initiation{}, errors.New("gateway down"))
		d.store.On("Delete", ctx, "orders/o1/f1.pdf").Return(nil)

		_, err := svc.Create(ctx, user, in)
		assert.ErrorContains(t, err, "initiate payment")
		d.assertExpectations(t)
		d.orders.AssertNotCalled(t, "Create")
	})

	t.Run("enqueue failure is a partial success", func(t *testing.T) {
		svc, d := newOrderService(t)

		d.products.On("FindByID", ctx, "p1").Return(flyerProduct(), nil)
		d.gateway.On("Initiate", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(pendingInitiation("ref"), nil)
		d.orders.On("Create", ctx, mock.Anything).
			Return(func(ctx context.Context, o *model.Order) *model.Order { return o }, nil)
		d.jobs.On("Enqueue", ctx, mock.Anything).Return(errors.New("queue full"))

		res, err := svc.Create(ctx, user, smallFormatInput())
		require.NoError(t, err)
		assert.NotNil(t, res.Order)
		assert.False(t, res.ConfirmationScheduled)
		d.assertExpectations(t)
	})

	t.Run("anonymous caller rejected", func(t *testing.T) {
		svc, _ := newOrderService(t)

		_, err := svc.Create(ctx, model.Actor{}, smallFormatInput())
		assert.ErrorIs(t, err, ErrActorRequired)
	})
}

func TestOrderService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	admin := model.Actor{UserID: "a1", Role: model.RoleAdmin}
	owner := &model.User{ID: "u1", Email: "u1@example.com"}

	existing := func() *model.Order {
		return &model.Order{ID: "o1", UserID: "u1", Status: model.StatusReceived}
	}

	t.Run("printing dispatches exactly one notification", func(t *testing.T) {
		svc, d := newOrderService(t)

		d.orders.On("FindByID", ctx, "o1").Return(existing(), nil)
		d.orders.On("SetStatus", ctx, "o1", model.StatusPrinting).Return(nil)
		d.users.On("FindByID", ctx, "u1").Return(owner, nil)
		d.notifications.On("Create", ctx, mock.MatchedBy(func(n *model.Notification) bool {
			return n.RecipientID == "u1" && strings.Contains(n.Message, "o1")
		})).Return(&model.Notification{ID: "n1"}, nil).Once()
		d.mailer.On("Send", ctx, "u1@example.com", mock.Anything, mock.Anything).Return(nil).Once()

		res, err := svc.UpdateStatus(ctx, admin, "o1", "PRINTING")
		require.NoError(t, err)
		assert.True(t, res.NotificationSent)
		assert.NoError(t, res.NotifyErr)
		assert.Equal(t, model.StatusPrinting, res.Order.Status)
		d.assertExpectations(t)
	})

	t.Run("done dispatches", func(t *testing.T) {
		svc, d := newOrderService(t)

		d.orders.On("FindByID", ctx, "o1").Return(existing(), nil)
		d.orders.On("SetStatus", ctx, "o1", model.StatusDone).Return(nil)
		d.users.On("FindByID", ctx, "u1").Return(owner, nil)
		d.notifications.On("Create", ctx, mock.Anything).Return(&model.Notification{ID: "n1"}, nil).Once()
		d.mailer.On("Send", ctx, "u1@example.com", mock.Anything, mock.Anything).Return(nil).Once()

		res, err := svc.UpdateStatus(ctx, admin, "o1", "DONE")
		require.NoError(t, err)
		assert.True(t, res.NotificationSent)
		d.assertExpectations(t)
	})

	t.Run("silent transitions carry no side effects", func(t *testing.T) {
		for _, status := range []string{"PENDING", "RECEIVED", "SHIPPING", "DELIVERED"} {
			svc, d := newOrderService(t)

			d.orders.On("FindByID", ctx, "o1").Return(existing(), nil)
			d.orders.On("SetStatus", ctx, "o1", model.OrderStatus(status)).Return(nil)

			res, err := svc.UpdateStatus(ctx, admin, "o1", status)
			require.NoError(t, err, status)
			assert.False(t, res.NotificationSent, status)
			d.notifications.AssertNotCalled(t, "Create")
			d.mailer.AssertNotCalled(t, "Send")
		}
	})

	t.Run("status persists when dispatch fails", func(t *testing.T) {
		svc, d := newOrderService(t)

		d.orders.On("FindByID", ctx, "o1").Return(existing(), nil)
		d.orders.On("SetStatus", ctx, "o1", model.StatusPrinting).Return(nil)
		d.users.On("FindByID", ctx, "u1").Return(owner, nil)
		d.notifications.On("Create", ctx, mock.Anything).Return(&model.Notification{ID: "n1"}, nil)
		d.mailer.On("Send", ctx, "u1@example.com", mock.Anything, mock.Anything).
			Return(errors.New("smtp down"))

		res, err := svc.UpdateStatus(ctx, admin, "o1", "PRINTING")
		require.NoError(t, err)
		assert.False(t, res.NotificationSent)
		assert.ErrorContains(t, res.NotifyErr, "send mail")
		assert.Equal(t, model.StatusPrinting, res.Order.Status)
		d.assertExpectations(t)
	})

	t.Run("any jump between statuses is allowed", func(t *testing.T) {
		svc, d := newOrderService(t)

		delivered := existing()
		delivered.Status = model.StatusDelivered
		d.orders.On("FindByID", ctx, "o1").Return(delivered, nil)
		d.orders.On("SetStatus", ctx, "o1", model.StatusPending).Return(nil)

		res, err := svc.UpdateStatus(ctx, admin, "o1", "PENDING")
		require.NoError(t, err)
		assert.Equal(t, model.StatusPending, res.Order.Status)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		svc, d := newOrderService(t)

		_, err := svc.UpdateStatus(ctx, admin, "o1", "CANCELLED")
		var verr *model.ValidationError
		assert.ErrorAs(t, err, &verr)
		d.orders.AssertNotCalled(t, "SetStatus")
	})

	t.Run("non-admin gets not found", func(t *testing.T) {
		svc, d := newOrderService(t)

		_, err := svc.UpdateStatus(ctx, model.Actor{UserID: "u1"}, "o1", "DONE")
		assert.ErrorIs(t, err, ErrNotFound)
		d.orders.AssertNotCalled(t, "FindByID")
	})
}

func TestOrderService_Get(t *testing.T) {
	ctx := context.Background()
	order := &model.Order{ID: "o1", UserID: "u1"}

	t.Run("owner sees own order", func(t *testing.T) {
		svc, d := newOrderService(t)
		d.orders.On("FindByID", ctx, "o1").Return(order, nil)

		got, err := svc.Get(ctx, model.Actor{UserID: "u1"}, "o1")
		require.NoError(t, err)
		assert.Equal(t, "o1", got.ID)
	})

	t.Run("admin sees any order", func(t *testing.T) {
		svc, d := newOrderService(t)
		d.orders.On("FindByID", ctx, "o1").Return(order, nil)

		_, err := svc.Get(ctx, model.Actor{UserID: "a1", Role: model.RoleAdmin}, "o1")
		assert.NoError(t, err)
	})

	t.Run("stranger gets not found", func(t *testing.T) {
		svc, d := newOrderService(t)
		d.orders.On("FindByID", ctx, "o1").Return(order, nil)

		_, err := svc.Get(ctx, model.Actor{UserID: "u2"}, "o1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("missing order", func(t *testing.T) {
		svc, d := newOrderService(t)
		d.orders.On("FindByID", ctx, "o1").Return(nil, sql.ErrNoRows)

		_, err := svc.Get(ctx, model.Actor{UserID: "u1"}, "o1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("stale cached total is repriced on read", func(t *testing.T) {
		svc, d := newOrderService(t)
		stale := &model.Order{
			ID:          "o1",
			UserID:      "u1",
			TotalAmount: decimal.NewFromInt(999),
			Configuration: &model.PrintConfiguration{
				FormatType:  model.FormatSmall,
				SmallFormat: model.SizeA4,
				Quantity:    20,
				ProductID:   "p1",
			},
		}
		d.orders.On("FindByID", ctx, "o1").Return(stale, nil)
		d.products.On("FindByID", ctx, "p1").Return(flyerProduct(), nil)

		got, err := svc.Get(ctx, model.Actor{UserID: "u1"}, "o1")
		require.NoError(t, err)
		assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(15000)), got.TotalAmount.String())
	})

	t.Run("snapshot kept when repricing degrades", func(t *testing.T) {
		svc, d := newOrderService(t)
		stale := &model.Order{
			ID:          "o1",
			UserID:      "u1",
			TotalAmount: decimal.NewFromInt(999),
			Configuration: &model.PrintConfiguration{
				FormatType:  model.FormatSmall,
				SmallFormat: model.SizeA4,
				Quantity:    20,
				ProductID:   "p1",
			},
		}
		d.orders.On("FindByID", ctx, "o1").Return(stale, nil)
		d.products.On("FindByID", ctx, "p1").Return(nil, sql.ErrNoRows)

		got, err := svc.Get(ctx, model.Actor{UserID: "u1"}, "o1")
		require.NoError(t, err)
		assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(999)), got.TotalAmount.String())
	})
}

func TestOrderService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("non-admin cannot widen to all users", func(t *testing.T) {
		svc, d := newOrderService(t)
		d.orders.On("List", ctx, mock.MatchedBy(func(q repository.OrderQuery) bool {
			return q.UserID == "u1" && !q.AllUsers
		})).Return([]model.Order{}, nil)

		_, err := svc.List(ctx, model.Actor{UserID: "u1"}, ListOrdersQuery{AllUsers: true})
		assert.NoError(t, err)
		d.assertExpectations(t)
	})

	t.Run("admin may list everything", func(t *testing.T) {
		svc, d := newOrderService(t)
		d.orders.On("List", ctx, mock.MatchedBy(func(q repository.OrderQuery) bool {
			return q.AllUsers && q.UserID == ""
		})).Return([]model.Order{}, nil)

		_, err := svc.List(ctx, model.Actor{UserID: "a1", Role: model.RoleAdmin}, ListOrdersQuery{AllUsers: true})
		assert.NoError(t, err)
		d.assertExpectations(t)
	})

	t.Run("listed orders are repriced", func(t *testing.T) {
		svc, d := newOrderService(t)
		d.orders.On("List", ctx, mock.Anything).Return([]model.Order{{
			ID:          "o1",
			UserID:      "u1",
			TotalAmount: decimal.NewFromInt(999),
			Configuration: &model.PrintConfiguration{
				FormatType:  model.FormatSmall,
				SmallFormat: model.SizeA4,
				Quantity:    20,
				ProductID:   "p1",
			},
		}}, nil)
		d.products.On("FindByID", ctx, "p1").Return(flyerProduct(), nil)

		orders, err := svc.List(ctx, model.Actor{UserID: "u1"}, ListOrdersQuery{})
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.True(t, orders[0].TotalAmount.Equal(decimal.NewFromInt(15000)), orders[0].TotalAmount.String())
	})
}

func TestOrderService_FileDownloads(t *testing.T) {
	ctx := context.Background()
	owner := model.Actor{UserID: "u1"}

	withFile := func() *model.Order {
		return &model.Order{
			ID:     "o1",
			UserID: "u1",
			Files: []model.File{{
				ID:          "f1",
				OrderID:     "o1",
				Name:        "brochure.pdf",
				StoragePath: "orders/o1/a.pdf",
			}},
		}
	}

	t.Run("owner streams a file", func(t *testing.T) {
		svc, d := newOrderService(t)
		d.orders.On("FindByID", ctx, "o1").Return(withFile(), nil)
		d.store.On("Get", ctx, "orders/o1/a.pdf").
			Return(io.NopCloser(strings.NewReader("%PDF-1.4")), storage.ObjectInfo{
				Key:         "orders/o1/a.pdf",
				Size:        8,
				ContentType: "application/pdf",
			}, nil)

		dl, err := svc.DownloadFile(ctx, owner, "o1", "f1")
		require.NoError(t, err)
		defer dl.Content.Close()
		assert.Equal(t, "brochure.pdf", dl.Name)
		assert.Equal(t, int64(8), dl.Size)
		assert.Equal(t, "application/pdf", dl.ContentType)
		body, _ := io.ReadAll(dl.Content)
		assert.Equal(t, "%PDF-1.4", string(body))
		d.assertExpectations(t)
	})

	t.Run("content type inferred from the name when storage omits it", func(t *testing.T) {
		svc, d := newOrderService(t)
		d.orders.On("FindByID", ctx, "o1").Return(withFile(), nil)
		d.store.On("Get", ctx, "orders/o1/a.pdf").
			Return(io.NopCloser(strings.NewReader("x")), storage.ObjectInfo{Size: 1}, nil)

		dl, err := svc.DownloadFile(ctx, owner, "o1", "f1")
		require.NoError(t, err)
		defer dl.Content.Close()
		assert.Equal(t, "application/pdf", dl.ContentType)
	})

	t.Run("presigned link", func(t *testing.T) {
		svc, d := newOrderService(t)
		d.orders.On("FindByID", ctx, "o1").Return(withFile(), nil)
		d.store.On("PresignGet", ctx, "orders/o1/a.pdf", mock.Anything).
			Return("https://storage.example.com/orders/o1/a.pdf?sig=x", nil)

		url, err := svc.FileURL(ctx, owner, "o1", "f1")
		require.NoError(t, err)
		assert.Contains(t, url, "orders/o1/a.pdf")
		d.assertExpectations(t)
	})

	t.Run("unknown file id", func(t *testing.T) {
		svc, d := newOrderService(t)
		d.orders.On("FindByID", ctx, "o1").Return(withFile(), nil)

		_, err := svc.DownloadFile(ctx, owner, "o1", "missing")
		assert.ErrorIs(t, err, ErrNotFound)
		d.store.AssertNotCalled(t, "Get")
	})

	t.Run("stranger cannot download", func(t *testing.T) {
		svc, d := newOrderService(t)
		d.orders.On("FindByID", ctx, "o1").Return(withFile(), nil)

		_, err := svc.FileURL(ctx, model.Actor{UserID: "u2"}, "o1", "f1")
		assert.ErrorIs(t, err, ErrNotFound)
		d.store.AssertNotCalled(t, "PresignGet")
	})
}

func TestOrderService_DeleteFlows(t *testing.T) {
	ctx := context.Background()
	owner := model.Actor{UserID: "u1"}

	t.Run("soft delete then restore", func(t *testing.T) {
		svc, d := newOrderService(t)
		order := &model.Order{ID: "o1", UserID: "u1"}
		d.orders.On("FindByID", ctx, "o1").Return(order, nil).Twice()
		d.orders.On("SetDeleted", ctx, "o1", true).Return(nil).Once()
		d.orders.On("SetDeleted", ctx, "o1", false).Return(nil).Once()

		require.NoError(t, svc.SoftDelete(ctx, owner, "o1"))
		require.NoError(t, svc.Restore(ctx, owner, "o1"))
		d.assertExpectations(t)
	})

	t.Run("hard delete removes stored files first", func(t *testing.T) {
		svc, d := newOrderService(t)
		order := &model.Order{
			ID:     "o1",
			UserID: "u1",
			Files: []model.File{
				{ID: "f1", StoragePath: "orders/o1/a.pdf"},
				{ID: "f2", StoragePath: "orders/o1/b.jpg"},
			},
		}
		d.orders.On("FindByID", ctx, "o1").Return(order, nil)
		d.store.On("Delete", ctx, "orders/o1/a.pdf").Return(nil)
		d.store.On("Delete", ctx, "orders/o1/b.jpg").Return(nil)
		d.orders.On("HardDelete", ctx, "o1").Return(nil)

		require.NoError(t, svc.HardDelete(ctx, owner, "o1"))
		d.assertExpectations(t)
	})

	t.Run("storage failure aborts hard delete", func(t *testing.T) {
		svc, d := newOrderService(t)
		order := &model.Order{
			ID:     "o1",
			UserID: "u1",
			Files:  []model.File{{ID: "f1", StoragePath: "orders/o1/a.pdf"}},
		}
		d.orders.On("FindByID", ctx, "o1").Return(order, nil)
		d.store.On("Delete", ctx, "orders/o1/a.pdf").Return(errors.New("minio down"))

		err := svc.HardDelete(ctx, owner, "o1")
		assert.ErrorContains(t, err, "delete stored file")
		d.orders.AssertNotCalled(t, "HardDelete")
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		svc, d := newOrderService(t)
		d.orders.On("FindByID", ctx, "o1").Return(&model.Order{ID: "o1", UserID: "u1"}, nil)

		err := svc.SoftDelete(ctx, model.Actor{UserID: "u2"}, "o1")
		assert.ErrorIs(t, err, ErrNotFound)
		d.orders.AssertNotCalled(t, "SetDeleted")
	})
}

func TestOrderService_Stats(t *testing.T) {
	ctx := context.Background()

	t.Run("zero-filled counts", func(t *testing.T) {
		svc, d := newOrderService(t)
		d.orders.On("CountByStatus", ctx).Return(map[model.OrderStatus]int{
			model.StatusPending: 4,
			model.StatusDone:    1,
		}, nil)

		stats, err := svc.Stats(ctx, model.Actor{UserID: "a1", Role: model.RoleAdmin})
		require.NoError(t, err)
		assert.Len(t, stats, len(model.OrderStatuses))
		assert.Equal(t, 4, stats[model.StatusPending])
		assert.Equal(t, 0, stats[model.StatusShipping])
	})

	t.Run("hidden from non-admins", func(t *testing.T) {
		svc, d := newOrderService(t)

		_, err := svc.Stats(ctx, model.Actor{UserID: "u1"})
		assert.ErrorIs(t, err, ErrNotFound)
		d.orders.AssertNotCalled(t, "CountByStatus")
	})

	t.Run("user scope counts only own orders", func(t *testing.T) {
		svc, d := newOrderService(t)
		d.orders.On("CountByStatusFor", ctx, "u1").Return(map[model.OrderStatus]int{
			model.StatusDelivered: 2,
		}, nil)

		stats, err := svc.UserStats(ctx, model.Actor{UserID: "u1"})
		require.NoError(t, err)
		assert.Len(t, stats, len(model.OrderStatuses))
		assert.Equal(t, 2, stats[model.StatusDelivered])
		assert.Equal(t, 0, stats[model.StatusPending])
	})

	t.Run("user scope requires an actor", func(t *testing.T) {
		svc, d := newOrderService(t)

		_, err := svc.UserStats(ctx, model.Actor{})
		assert.ErrorIs(t, err, ErrActorRequired)
		d.orders.AssertNotCalled(t, "CountByStatusFor")
	})

	t.Run("public count is open to anyone", func(t *testing.T) {
		svc, d := newOrderService(t)
		d.orders.On("CountActive", ctx).Return(57, nil)

		count, err := svc.PublicCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, 57, count)
	})
}
