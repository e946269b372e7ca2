package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"printapi/internal/model"
	"printapi/internal/repository"
)

// OrderPostgres is a PostgreSQL implementation of repository.OrderRepository.
// Create runs inside a single transaction so an order and everything it owns
// either all persist or none do.
type OrderPostgres struct {
	db *sql.DB
}

// NewOrderPostgres creates a new OrderPostgres repository.
func NewOrderPostgres(db *sql.DB) *OrderPostgres {
	return &OrderPostgres{db: db}
}

var _ repository.OrderRepository = (*OrderPostgres)(nil)

// Create inserts the configuration, the order row, any files and the payment
// as one atomic unit.
func (r *OrderPostgres) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin order tx: %w", err)
	}
	defer tx.Rollback()

	cfg := order.Configuration
	const qConfig = `
		INSERT INTO print_configurations (id, format_type, small_format, width_cm, height_cm,
			paper_type, finish, duplex, binding, cover_paper, quantity, is_book, book_pages,
			options, product_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	if _, err := tx.ExecContext(ctx, qConfig,
		cfg.ID,
		cfg.FormatType,
		nullString(string(cfg.SmallFormat)),
		cfg.WidthCm,
		cfg.HeightCm,
		nullString(string(cfg.PaperType)),
		nullString(string(cfg.Finish)),
		nullString(string(cfg.DuplexMode)),
		nullString(string(cfg.BindingType)),
		nullString(string(cfg.CoverPaper)),
		cfg.Quantity,
		cfg.IsBook,
		cfg.BookPages,
		cfg.Options,
		nullString(cfg.ProductID),
		cfg.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("insert configuration: %w", err)
	}

	const qOrder = `
		INSERT INTO orders (id, user_id, configuration_id, status, total_amount, payment_method, deleted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if _, err := tx.ExecContext(ctx, qOrder,
		order.ID,
		order.UserID,
		cfg.ID,
		order.Status,
		order.TotalAmount,
		order.PaymentMethod,
		order.Deleted,
		order.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	const qFile = `
		INSERT INTO files (id, order_id, name, format, size, resolution_dpi, color_profile, storage_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for i := range order.Files {
		f := &order.Files[i]
		if _, err := tx.ExecContext(ctx, qFile,
			f.ID, f.OrderID, f.Name, f.Format, f.Size, f.ResolutionDPI, f.ColorProfile, f.StoragePath, f.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("insert file: %w", err)
		}
	}

	if order.Payment != nil {
		p := order.Payment
		const qPayment = `
			INSERT INTO payments (id, order_id, phone, amount, transaction_ref, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		if _, err := tx.ExecContext(ctx, qPayment,
			p.ID, p.OrderID, p.Phone, p.Amount, p.TransactionRef, p.Status, p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("insert payment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit order tx: %w", err)
	}
	return order, nil
}

// FindByID fetches one order together with its configuration, files and payment.
func (r *OrderPostgres) FindByID(ctx context.Context, id string) (*model.Order, error) {
	const q = `
		SELECT o.id, o.user_id, o.status, o.total_amount, o.payment_method, o.deleted, o.created_at,
			c.id, c.format_type, c.small_format, c.width_cm, c.height_cm, c.paper_type, c.finish,
			c.duplex, c.binding, c.cover_paper, c.quantity, c.is_book, c.book_pages, c.options,
			c.product_id, c.created_at
		FROM orders o
		JOIN print_configurations c ON c.id = o.configuration_id
		WHERE o.id = $1
	`
	order, err := scanOrder(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// List returns orders matching the query, newest first.
func (r *OrderPostgres) List(ctx context.Context, q repository.OrderQuery) ([]model.Order, error) {
	query := `
		SELECT o.id, o.user_id, o.status, o.total_amount, o.payment_method, o.deleted, o.created_at,
			c.id, c.format_type, c.small_format, c.width_cm, c.height_cm, c.paper_type, c.finish,
			c.duplex, c.binding, c.cover_paper, c.quantity, c.is_book, c.book_pages, c.options,
			c.product_id, c.created_at
		FROM orders o
		JOIN print_configurations c ON c.id = o.configuration_id
		WHERE 1=1
	`
	args := []any{}
	if !q.AllUsers {
		args = append(args, q.UserID)
		query += fmt.Sprintf(" AND o.user_id = $%d", len(args))
	}
	if q.DeletedOnly {
		query += " AND o.deleted = TRUE"
	} else if !q.IncludeDeleted {
		query += " AND o.deleted = FALSE"
	}
	query += " ORDER BY o.created_at DESC, o.id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]model.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		if err := r.loadChildren(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// SetStatus overwrites the status of one order. Missing rows surface as
// sql.ErrNoRows so the service can report not-found.
func (r *OrderPostgres) SetStatus(ctx context.Context, id string, status model.OrderStatus) error {
	const q = `UPDATE orders SET status = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetDeleted flips the soft-delete flag.
func (r *OrderPostgres) SetDeleted(ctx context.Context, id string, deleted bool) error {
	const q = `UPDATE orders SET deleted = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, q, deleted, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// HardDelete removes the order and cascades to its configuration, files and
// payment. Files and payment rows cascade via foreign keys; the
// configuration is removed explicitly because the order references it, not
// the other way around.
func (r *OrderPostgres) HardDelete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete tx: %w", err)
	}
	defer tx.Rollback()

	var configID string
	if err := tx.QueryRowContext(ctx, `SELECT configuration_id FROM orders WHERE id = $1`, id).Scan(&configID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM print_configurations WHERE id = $1`, configID); err != nil {
		return fmt.Errorf("delete configuration: %w", err)
	}
	return tx.Commit()
}

// CountByStatus returns live order counts per status for the admin dashboard.
func (r *OrderPostgres) CountByStatus(ctx context.Context) (map[model.OrderStatus]int, error) {
	const q = `SELECT status, COUNT(*) FROM orders WHERE deleted = FALSE GROUP BY status`
	return r.countByStatus(ctx, q)
}

// CountByStatusFor returns one user's live order counts per status.
func (r *OrderPostgres) CountByStatusFor(ctx context.Context, userID string) (map[model.OrderStatus]int, error) {
	const q = `SELECT status, COUNT(*) FROM orders WHERE deleted = FALSE AND user_id = $1 GROUP BY status`
	return r.countByStatus(ctx, q, userID)
}

func (r *OrderPostgres) countByStatus(ctx context.Context, q string, args ...any) (map[model.OrderStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.OrderStatus]int)
	for rows.Next() {
		var status model.OrderStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// CountActive returns the total number of live orders.
func (r *OrderPostgres) CountActive(ctx context.Context) (int, error) {
	const q = `SELECT COUNT(*) FROM orders WHERE deleted = FALSE`
	var n int
	err := r.db.QueryRowContext(ctx, q).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var o model.Order
	var c model.PrintConfiguration
	var smallFormat, paper, finish, duplex, binding, cover, productID, options sql.NullString
	if err := row.Scan(
		&o.ID, &o.UserID, &o.Status, &o.TotalAmount, &o.PaymentMethod, &o.Deleted, &o.CreatedAt,
		&c.ID, &c.FormatType, &smallFormat, &c.WidthCm, &c.HeightCm, &paper, &finish,
		&duplex, &binding, &cover, &c.Quantity, &c.IsBook, &c.BookPages, &options,
		&productID, &c.CreatedAt,
	); err != nil {
		return nil, err
	}
	c.SmallFormat = model.SmallFormat(smallFormat.String)
	c.PaperType = model.PaperType(paper.String)
	c.Finish = model.Finish(finish.String)
	c.DuplexMode = model.Duplex(duplex.String)
	c.BindingType = model.Binding(binding.String)
	c.CoverPaper = model.CoverPaper(cover.String)
	c.Options = options.String
	c.ProductID = productID.String
	o.Configuration = &c
	return &o, nil
}

func (r *OrderPostgres) loadChildren(ctx context.Context, order *model.Order) error {
	const qFiles = `
		SELECT id, order_id, name, format, size, resolution_dpi, color_profile, storage_path, created_at
		FROM files
		WHERE order_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, qFiles, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var f model.File
		if err := rows.Scan(&f.ID, &f.OrderID, &f.Name, &f.Format, &f.Size,
			&f.ResolutionDPI, &f.ColorProfile, &f.StoragePath, &f.CreatedAt); err != nil {
			return err
		}
		order.Files = append(order.Files, f)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	const qPayment = `
		SELECT id, order_id, phone, amount, transaction_ref, status, created_at
		FROM payments
		WHERE order_id = $1
	`
	var p model.Payment
	err = r.db.QueryRowContext(ctx, qPayment, order.ID).Scan(
		&p.ID, &p.OrderID, &p.Phone, &p.Amount, &p.TransactionRef, &p.Status, &p.CreatedAt,
	)
	switch {
	case err == sql.ErrNoRows:
		// legacy rows may predate the payment record
	case err != nil:
		return err
	default:
		order.Payment = &p
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
