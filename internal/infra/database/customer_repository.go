package database

import (
	"context"
	"database/sql"
	"slices"
	"time"

	"github.com/pkg/errors"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const pageSize = entity.PageSize

const customerColumns = `id, name, email, phone, company, created_at, updated_at`

// CustomerRepository stores customers in Postgres. Deleting a customer removes
// its leads in the same transaction.
type CustomerRepository struct {
	DB  *sql.DB
	now func() time.Time
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{DB: db, now: utcNow}
}

func (r *CustomerRepository) CreateCustomer(ctx context.Context, in entity.CustomerInput) (entity.Customer, error) {
	c := entity.NewCustomer("", in, r.now())

	var id int64
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO customers (name, email, phone, company, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, c.Name, c.Email, c.Phone, c.Company, c.CreatedAt, c.UpdatedAt).Scan(&id)
	if err != nil {
		return entity.Customer{}, errors.Wrap(err, "insert customer")
	}

	c.ID = formatID(id)
	return c, nil
}

func (r *CustomerRepository) FindCustomer(ctx context.Context, id string) (entity.Customer, error) {
	return findCustomer(ctx, r.DB, id, "")
}

func (r *CustomerRepository) UpdateCustomer(ctx context.Context, id string, patch entity.CustomerPatch) (c entity.Customer, retErr error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return c, errors.Wrap(err, "begin")
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	c, err = findCustomer(ctx, tx, id, " FOR UPDATE")
	if err != nil {
		return c, err
	}
	key, _ := parseID(c.ID)
	patch.Apply(&c, r.now())

	_, err = tx.ExecContext(ctx, `
		UPDATE customers
		SET name = $2, email = $3, phone = $4, company = $5, updated_at = $6
		WHERE id = $1
	`, key, c.Name, c.Email, c.Phone, c.Company, c.UpdatedAt)
	if err != nil {
		return c, errors.Wrap(err, "update customer")
	}

	return c, errors.Wrap(tx.Commit(), "commit")
}

// DeleteCustomer removes the customer and its leads and returns the lead ids.
func (r *CustomerRepository) DeleteCustomer(ctx context.Context, id string) (leadIDs []string, retErr error) {
	key, ok := parseID(id)
	if !ok {
		return nil, entity.ErrCustomerNotFound
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin")
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, key)
	if err != nil {
		return nil, errors.Wrap(err, "delete customer")
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, errors.Wrap(err, "rows affected")
	} else if n == 0 {
		return nil, entity.ErrCustomerNotFound
	}

	rows, err := tx.QueryContext(ctx, `DELETE FROM leads WHERE customer_id = $1 RETURNING id`, id)
	if err != nil {
		return nil, errors.Wrap(err, "delete customer leads")
	}
	var keys []int64
	for rows.Next() {
		var leadID int64
		if err := rows.Scan(&leadID); err != nil {
			rows.Close()
			return nil, errors.Wrap(err, "scan lead id")
		}
		keys = append(keys, leadID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate lead ids")
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit")
	}

	// insertion order, like the in-memory store
	slices.Sort(keys)
	leadIDs = make([]string, 0, len(keys))
	for _, k := range keys {
		leadIDs = append(leadIDs, formatID(k))
	}
	return leadIDs, nil
}

func (r *CustomerRepository) ListCustomers(ctx context.Context, q entity.CustomerQuery) (entity.Page[entity.Customer], error) {
	page := entity.NormalizePage(q.Page)
	where := `($1 = '' OR strpos(lower(name), lower($1)) > 0 OR strpos(lower(email), lower($1)) > 0)`

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers WHERE `+where, q.Search).Scan(&total); err != nil {
		return entity.Page[entity.Customer]{}, errors.Wrap(err, "count customers")
	}

	data := []entity.Customer{}
	if entity.PageInRange(page, total) {
		var err error
		data, err = queryCustomers(ctx, r.DB,
			`SELECT `+customerColumns+` FROM customers WHERE `+where+` ORDER BY id LIMIT $2 OFFSET $3`,
			q.Search, pageSize, pageOffset(page))
		if err != nil {
			return entity.Page[entity.Customer]{}, err
		}
	}

	return entity.Page[entity.Customer]{
		Data:        data,
		TotalCount:  total,
		CurrentPage: page,
		TotalPages:  entity.TotalPages(total),
	}, nil
}

func queryCustomers(ctx context.Context, q queryer, query string, args ...any) ([]entity.Customer, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list customers")
	}
	defer rows.Close()

	customers := []entity.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate customers")
	}
	return customers, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCustomer(s scanner) (entity.Customer, error) {
	var c entity.Customer
	var id int64
	if err := s.Scan(&id, &c.Name, &c.Email, &c.Phone, &c.Company, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return c, errors.Wrap(err, "scan customer")
	}
	c.ID = formatID(id)
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c, nil
}

func findCustomer(ctx context.Context, q queryer, id, lock string) (entity.Customer, error) {
	key, ok := parseID(id)
	if !ok {
		return entity.Customer{}, entity.ErrCustomerNotFound
	}
	c, err := scanCustomer(q.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`+lock, key))
	if errors.Is(err, sql.ErrNoRows) {
		return c, entity.ErrCustomerNotFound
	}
	return c, err
}
