package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/rl1809/farmers-market/internal/core/domain"
	"github.com/rl1809/farmers-market/internal/port"
)

const mysqlDuplicateEntry = 1062

//go:embed schema.sql
var schema string

// MySQLAdapter is an append-only ledger of completed sales. Market state is
// never loaded back from it.
type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) EnsureSchema(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func (m *MySQLAdapter) CreateSale(ctx context.Context, sale domain.Sale) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales (id, request_id, market, item_id, item_name, unit_price, quantity, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sale.ID, sale.RequestID, sale.Market, sale.ItemID, sale.ItemName,
		sale.UnitPrice, sale.Quantity, sale.CreatedAt,
	)
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
			return port.ErrSaleExists
		}
		return fmt.Errorf("insert sale: %w", err)
	}

	for i, a := range sale.Allocations {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sale_allocations (sale_id, position, vendor_id, vendor_name, quantity)
			VALUES (?, ?, ?, ?, ?)`,
			sale.ID, i, a.VendorID, a.VendorName, a.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert allocation: %w", err)
		}
	}

	return tx.Commit()
}

func (m *MySQLAdapter) GetSale(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	var sale domain.Sale
	err := m.db.QueryRowContext(ctx, `
		SELECT id, request_id, market, item_id, item_name, unit_price, quantity, created_at
		FROM sales WHERE id = ?`, id,
	).Scan(&sale.ID, &sale.RequestID, &sale.Market, &sale.ItemID, &sale.ItemName,
		&sale.UnitPrice, &sale.Quantity, &sale.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query sale: %w", err)
	}

	if sale.Allocations, err = m.allocations(ctx, sale.ID); err != nil {
		return nil, err
	}

	return &sale, nil
}

func (m *MySQLAdapter) ListSalesByItem(ctx context.Context, itemID uuid.UUID) ([]domain.Sale, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, request_id, market, item_id, item_name, unit_price, quantity, created_at
		FROM sales WHERE item_id = ? ORDER BY created_at, id`, itemID)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	var sales []domain.Sale
	for rows.Next() {
		var s domain.Sale
		if err := rows.Scan(&s.ID, &s.RequestID, &s.Market, &s.ItemID, &s.ItemName,
			&s.UnitPrice, &s.Quantity, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales: %w", err)
	}

	for i := range sales {
		if sales[i].Allocations, err = m.allocations(ctx, sales[i].ID); err != nil {
			return nil, err
		}
	}

	return sales, nil
}

func (m *MySQLAdapter) allocations(ctx context.Context, saleID uuid.UUID) ([]domain.Allocation, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT vendor_id, vendor_name, quantity
		FROM sale_allocations WHERE sale_id = ? ORDER BY position`, saleID)
	if err != nil {
		return nil, fmt.Errorf("query allocations: %w", err)
	}
	defer rows.Close()

	var out []domain.Allocation
	for rows.Next() {
		var a domain.Allocation
		if err := rows.Scan(&a.VendorID, &a.VendorName, &a.Quantity); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		out = append(out, a)
	}

	return out, rows.Err()
}
