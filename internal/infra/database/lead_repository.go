package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const leadColumns = `id, title, description, status, value, customer_id, created_at, updated_at`

const leadFilter = `($1 = '' OR status = $1) AND ($2 = '' OR customer_id = $2)`

type LeadRepository struct {
	DB  *sql.DB
	now func() time.Time
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db, now: utcNow}
}

func (r *LeadRepository) CreateLead(ctx context.Context, in entity.LeadInput) (entity.Lead, error) {
	l := entity.NewLead("", in, r.now())

	var id int64
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO leads (title, description, status, value, customer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, l.Title, l.Description, string(l.Status), l.Value, l.CustomerID, l.CreatedAt, l.UpdatedAt).Scan(&id)
	if err != nil {
		return entity.Lead{}, errors.Wrap(err, "insert lead")
	}

	l.ID = formatID(id)
	return l, nil
}

func (r *LeadRepository) FindLead(ctx context.Context, id string) (entity.Lead, error) {
	return findLead(ctx, r.DB, id, "")
}

func (r *LeadRepository) UpdateLead(ctx context.Context, id string, patch entity.LeadPatch) (l entity.Lead, retErr error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return l, errors.Wrap(err, "begin")
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	l, err = findLead(ctx, tx, id, " FOR UPDATE")
	if err != nil {
		return l, err
	}
	key, _ := parseID(l.ID)
	patch.Apply(&l, r.now())

	_, err = tx.ExecContext(ctx, `
		UPDATE leads
		SET title = $2, description = $3, status = $4, value = $5, customer_id = $6, updated_at = $7
		WHERE id = $1
	`, key, l.Title, l.Description, string(l.Status), l.Value, l.CustomerID, l.UpdatedAt)
	if err != nil {
		return l, errors.Wrap(err, "update lead")
	}

	return l, errors.Wrap(tx.Commit(), "commit")
}

func (r *LeadRepository) DeleteLead(ctx context.Context, id string) error {
	key, ok := parseID(id)
	if !ok {
		return entity.ErrLeadNotFound
	}

	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, key)
	if err != nil {
		return errors.Wrap(err, "delete lead")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepository) ListLeads(ctx context.Context, q entity.LeadQuery) (entity.Page[entity.Lead], error) {
	page := entity.NormalizePage(q.Page)
	status := string(q.Status)
	if q.Status == entity.LeadStatusAll {
		status = ""
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads WHERE `+leadFilter, status, q.CustomerID).Scan(&total); err != nil {
		return entity.Page[entity.Lead]{}, errors.Wrap(err, "count leads")
	}

	data := []entity.Lead{}
	if entity.PageInRange(page, total) {
		var err error
		data, err = queryLeads(ctx, r.DB,
			`SELECT `+leadColumns+` FROM leads WHERE `+leadFilter+` ORDER BY id LIMIT $3 OFFSET $4`,
			status, q.CustomerID, pageSize, pageOffset(page))
		if err != nil {
			return entity.Page[entity.Lead]{}, err
		}
	}

	return entity.Page[entity.Lead]{
		Data:        data,
		TotalCount:  total,
		CurrentPage: page,
		TotalPages:  entity.TotalPages(total),
	}, nil
}

func (r *LeadRepository) LeadsByCustomer(ctx context.Context, customerID string) ([]entity.Lead, error) {
	return queryLeads(ctx, r.DB, `SELECT `+leadColumns+` FROM leads WHERE customer_id = $1 ORDER BY id`, customerID)
}

func queryLeads(ctx context.Context, q queryer, query string, args ...any) ([]entity.Lead, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query leads")
	}
	defer rows.Close()

	leads := []entity.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate leads")
	}
	return leads, nil
}

func scanLead(s scanner) (entity.Lead, error) {
	var l entity.Lead
	var id int64
	var status string
	if err := s.Scan(&id, &l.Title, &l.Description, &status, &l.Value, &l.CustomerID, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return l, errors.Wrap(err, "scan lead")
	}
	l.ID = formatID(id)
	l.Status = entity.LeadStatus(status)
	l.CreatedAt = l.CreatedAt.UTC()
	l.UpdatedAt = l.UpdatedAt.UTC()
	return l, nil
}

func findLead(ctx context.Context, q queryer, id, lock string) (entity.Lead, error) {
	key, ok := parseID(id)
	if !ok {
		return entity.Lead{}, entity.ErrLeadNotFound
	}
	l, err := scanLead(q.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`+lock, key))
	if errors.Is(err, sql.ErrNoRows) {
		return l, entity.ErrLeadNotFound
	}
	return l, err
}
