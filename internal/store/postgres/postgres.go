package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"merchdesk/backend/internal/domain"
	"merchdesk/backend/internal/store"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func (s *Store) ListProducts(ctx context.Context, includeInactive bool) ([]domain.Product, error) {
	query := `
		SELECT slug, name, category, price_cents, currency, image_id, active, created_at, updated_at
		FROM products
		WHERE active = true OR $1
		ORDER BY category, name
	`
	rows, err := s.db.QueryContext(ctx, query, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 128)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.Slug, &p.Name, &p.Category, &p.PriceCents, &p.Currency, &p.ImageID, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	var p domain.Product
	err := s.db.QueryRowContext(ctx, `
		SELECT slug, name, category, price_cents, currency, image_id, active, created_at, updated_at
		FROM products
		WHERE slug = $1
	`, slug).Scan(&p.Slug, &p.Name, &p.Category, &p.PriceCents, &p.Currency, &p.ImageID, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) GetProductsBySlugs(ctx context.Context, slugs []string) (map[string]domain.Product, error) {
	out := make(map[string]domain.Product, len(slugs))
	if len(slugs) == 0 {
		return out, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT slug, name, category, price_cents, currency, image_id, active, created_at, updated_at
		FROM products
		WHERE slug = ANY($1)
	`, slugs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.Slug, &p.Name, &p.Category, &p.PriceCents, &p.Currency, &p.ImageID, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out[p.Slug] = p
	}
	return out, rows.Err()
}

func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.Slug == "" || product.Name == "" || product.PriceCents < 0 {
		return nil, store.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (slug, name, category, price_cents, currency, image_id, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, product.Slug, product.Name, product.Category, product.PriceCents, product.Currency, product.ImageID, product.Active, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	created := product
	return &created, nil
}

func (s *Store) UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, category = $3, price_cents = $4, currency = $5, image_id = $6, active = $7, updated_at = $8
		WHERE slug = $1
	`, product.Slug, product.Name, product.Category, product.PriceCents, product.Currency, product.ImageID, product.Active, product.UpdatedAt)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	updated := product
	return &updated, nil
}

func (s *Store) CreatePriceHistory(ctx context.Context, entry domain.ProductPriceHistory) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO product_price_history (id, slug, old_price_cents, new_price_cents, changed_by, changed_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, entry.ID, entry.Slug, entry.OldPriceCents, entry.NewPriceCents, entry.ChangedBy, entry.ChangedAt)
	return err
}

func (s *Store) ListPriceHistory(ctx context.Context, slug string, limit int) ([]domain.ProductPriceHistory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, slug, old_price_cents, new_price_cents, changed_by, changed_at
		FROM product_price_history
		WHERE slug = $1
		ORDER BY changed_at DESC
		LIMIT $2
	`, slug, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]domain.ProductPriceHistory, 0, limit)
	for rows.Next() {
		var entry domain.ProductPriceHistory
		if err := rows.Scan(&entry.ID, &entry.Slug, &entry.OldPriceCents, &entry.NewPriceCents, &entry.ChangedBy, &entry.ChangedAt); err != nil {
			return nil, err
		}
		history = append(history, entry)
	}
	return history, rows.Err()
}

func (s *Store) ListBundles(ctx context.Context, includeInactive bool) ([]domain.Bundle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, slug, name, category, composition, pricing, active, created_at, updated_at
		FROM bundles
		WHERE active = true OR $1
		ORDER BY slug
	`, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bundles := make([]domain.Bundle, 0, 32)
	for rows.Next() {
		bundle, err := scanBundle(rows)
		if err != nil {
			return nil, err
		}
		bundles = append(bundles, *bundle)
	}
	return bundles, rows.Err()
}

func (s *Store) GetBundleByID(ctx context.Context, id string) (*domain.Bundle, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, slug, name, category, composition, pricing, active, created_at, updated_at
		FROM bundles
		WHERE id = $1
	`, id)
	bundle, err := scanBundle(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return bundle, nil
}

func (s *Store) GetBundleBySlug(ctx context.Context, slug string) (*domain.Bundle, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, slug, name, category, composition, pricing, active, created_at, updated_at
		FROM bundles
		WHERE slug = $1
	`, slug)
	bundle, err := scanBundle(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return bundle, nil
}

func (s *Store) CreateBundle(ctx context.Context, bundle domain.Bundle) (*domain.Bundle, error) {
	if bundle.ID == "" || bundle.Slug == "" {
		return nil, store.ErrInvalidInput
	}

	composition, pricing, err := encodeBundle(bundle)
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO bundles (id, slug, name, category, composition, pricing, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, bundle.ID, bundle.Slug, bundle.Name, bundle.Category, composition, pricing, bundle.Active, bundle.CreatedAt, bundle.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	created := bundle
	return &created, nil
}

func (s *Store) UpdateBundle(ctx context.Context, bundle domain.Bundle) (*domain.Bundle, error) {
	composition, pricing, err := encodeBundle(bundle)
	if err != nil {
		return nil, err
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE bundles
		SET slug = $2, name = $3, category = $4, composition = $5, pricing = $6, active = $7, updated_at = $8
		WHERE id = $1
	`, bundle.ID, bundle.Slug, bundle.Name, bundle.Category, composition, pricing, bundle.Active, bundle.UpdatedAt)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	updated := bundle
	return &updated, nil
}

func (s *Store) ListDiscounts(ctx context.Context, includePaused bool) ([]domain.Discount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, kind, code, value, eligibility, start_at, end_at, exclusive, priority, status, created_at, updated_at
		FROM discounts
		WHERE status = 'active' OR $1
		ORDER BY priority DESC, id
	`, includePaused)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	discounts := make([]domain.Discount, 0, 64)
	for rows.Next() {
		discount, err := scanDiscount(rows)
		if err != nil {
			return nil, err
		}
		discounts = append(discounts, *discount)
	}
	return discounts, rows.Err()
}

func (s *Store) GetDiscountByID(ctx context.Context, id string) (*domain.Discount, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, kind, code, value, eligibility, start_at, end_at, exclusive, priority, status, created_at, updated_at
		FROM discounts
		WHERE id = $1
	`, id)
	discount, err := scanDiscount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return discount, nil
}

func (s *Store) CreateDiscount(ctx context.Context, discount domain.Discount) (*domain.Discount, error) {
	if discount.ID == "" || discount.Name == "" {
		return nil, store.ErrInvalidInput
	}

	value, eligibility, err := encodeDiscount(discount)
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO discounts (id, name, kind, code, value, eligibility, start_at, end_at, exclusive, priority, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`, discount.ID, discount.Name, discount.Kind, discount.Code, value, eligibility,
		discount.StartAt, discount.EndAt, discount.Stacking.Exclusive, discount.Stacking.Priority,
		discount.Status, discount.CreatedAt, discount.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	created := discount
	return &created, nil
}

func (s *Store) UpdateDiscount(ctx context.Context, discount domain.Discount) (*domain.Discount, error) {
	value, eligibility, err := encodeDiscount(discount)
	if err != nil {
		return nil, err
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE discounts
		SET name = $2, code = $3, value = $4, eligibility = $5, start_at = $6, end_at = $7,
		    exclusive = $8, priority = $9, status = $10, updated_at = $11
		WHERE id = $1
	`, discount.ID, discount.Name, discount.Code, value, eligibility, discount.StartAt, discount.EndAt,
		discount.Stacking.Exclusive, discount.Stacking.Priority, discount.Status, discount.UpdatedAt)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	updated := discount
	return &updated, nil
}

func (s *Store) CreatePublishDraft(ctx context.Context, draft domain.PublishDraft) (*domain.PublishDraft, error) {
	if draft.ID == "" || draft.EntityID == "" {
		return nil, store.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO publish_drafts (id, entity_kind, entity_id, note, payload, status, submitted_by, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, draft.ID, draft.EntityKind, draft.EntityID, draft.Note, draft.Payload, draft.Status, draft.SubmittedBy, draft.CreatedAt, draft.UpdatedAt)
	if err != nil {
		return nil, err
	}

	created := draft
	return &created, nil
}

func (s *Store) UpdatePublishDraftStatus(ctx context.Context, id string, status string, at time.Time) (*domain.PublishDraft, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE publish_drafts SET status = $2, updated_at = $3 WHERE id = $1
	`, id, status, at)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetPublishDraftByID(ctx, id)
}

func (s *Store) GetPublishDraftByID(ctx context.Context, id string) (*domain.PublishDraft, error) {
	var draft domain.PublishDraft
	err := s.db.QueryRowContext(ctx, `
		SELECT id, entity_kind, entity_id, note, payload, status, submitted_by, created_at, updated_at
		FROM publish_drafts
		WHERE id = $1
	`, id).Scan(&draft.ID, &draft.EntityKind, &draft.EntityID, &draft.Note, &draft.Payload, &draft.Status, &draft.SubmittedBy, &draft.CreatedAt, &draft.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &draft, nil
}

func (s *Store) ListPublishDrafts(ctx context.Context, limit int) ([]domain.PublishDraft, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, entity_kind, entity_id, note, payload, status, submitted_by, created_at, updated_at
		FROM publish_drafts
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drafts := make([]domain.PublishDraft, 0, limit)
	for rows.Next() {
		var draft domain.PublishDraft
		if err := rows.Scan(&draft.ID, &draft.EntityKind, &draft.EntityID, &draft.Note, &draft.Payload, &draft.Status, &draft.SubmittedBy, &draft.CreatedAt, &draft.UpdatedAt); err != nil {
			return nil, err
		}
		drafts = append(drafts, draft)
	}
	return drafts, rows.Err()
}

func (s *Store) CreateAuditLog(ctx context.Context, entry domain.AuditLog) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, actor_username, actor_role, action, entity_type, entity_id, detail, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, entry.ID, entry.ActorUsername, entry.ActorRole, entry.Action, entry.EntityType, entry.EntityID, entry.Detail, entry.CreatedAt)
	return err
}

func (s *Store) ListAuditLogs(ctx context.Context, from time.Time, to time.Time, limit int) ([]domain.AuditLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, actor_username, actor_role, action, entity_type, entity_id, detail, created_at
		FROM audit_logs
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at DESC
		LIMIT $3
	`, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]domain.AuditLog, 0, limit)
	for rows.Next() {
		var entry domain.AuditLog
		if err := rows.Scan(&entry.ID, &entry.ActorUsername, &entry.ActorRole, &entry.Action, &entry.EntityType, &entry.EntityID, &entry.Detail, &entry.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, password, role, active, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, user.Username, user.Password, user.Role, user.Active, user.CreatedAt)
	if isUniqueViolation(err) {
		return store.ErrConflict
	}
	return err
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, password, role, active, created_at
		FROM users
		ORDER BY username
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.UserAccount, 0, 16)
	for rows.Next() {
		var user domain.UserAccount
		if err := rows.Scan(&user.Username, &user.Password, &user.Role, &user.Active, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, password string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET password = $2 WHERE username = $1
	`, username, password)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBundle(row rowScanner) (*domain.Bundle, error) {
	var bundle domain.Bundle
	var composition, pricing []byte
	if err := row.Scan(&bundle.ID, &bundle.Slug, &bundle.Name, &bundle.Category, &composition, &pricing, &bundle.Active, &bundle.CreatedAt, &bundle.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(composition, &bundle.Composition); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(pricing, &bundle.Pricing); err != nil {
		return nil, err
	}
	return &bundle, nil
}

func encodeBundle(bundle domain.Bundle) ([]byte, []byte, error) {
	composition, err := json.Marshal(bundle.Composition)
	if err != nil {
		return nil, nil, err
	}
	pricing, err := json.Marshal(bundle.Pricing)
	if err != nil {
		return nil, nil, err
	}
	return composition, pricing, nil
}

func scanDiscount(row rowScanner) (*domain.Discount, error) {
	var discount domain.Discount
	var value, eligibility []byte
	if err := row.Scan(&discount.ID, &discount.Name, &discount.Kind, &discount.Code, &value, &eligibility,
		&discount.StartAt, &discount.EndAt, &discount.Stacking.Exclusive, &discount.Stacking.Priority,
		&discount.Status, &discount.CreatedAt, &discount.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(value, &discount.Value); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(eligibility, &discount.Eligibility); err != nil {
		return nil, err
	}
	return &discount, nil
}

func encodeDiscount(discount domain.Discount) ([]byte, []byte, error) {
	value, err := json.Marshal(discount.Value)
	if err != nil {
		return nil, nil, err
	}
	eligibility, err := json.Marshal(discount.Eligibility)
	if err != nil {
		return nil, nil, err
	}
	return value, eligibility, nil
}
