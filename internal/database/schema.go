package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/norahairline/norahairline/internal/config"
)

// Tables lists the store's tables in creation order.
var Tables = []string{"admins", "products", "orders", "reviews"}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS admins (
	    id INTEGER PRIMARY KEY AUTOINCREMENT,
	    username VARCHAR(100) NOT NULL UNIQUE CHECK (length(username) BETWEEN 1 AND 100),
	    password_hash VARCHAR(200) NOT NULL CHECK (length(password_hash) BETWEEN 1 AND 200),
	    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS products (
	    id INTEGER PRIMARY KEY AUTOINCREMENT,
	    name VARCHAR(200) NOT NULL CHECK (length(name) <= 200),
	    description TEXT NOT NULL,
	    price REAL NOT NULL CHECK (price >= 0),
	    category VARCHAR(50) NOT NULL CHECK (length(category) <= 50),
	    image_url VARCHAR(500) CHECK (image_url IS NULL OR length(image_url) <= 500),
	    video_url VARCHAR(500) CHECK (video_url IS NULL OR length(video_url) <= 500),
	    image_urls TEXT CHECK (image_urls IS NULL OR json_valid(image_urls)),
	    stock INTEGER NOT NULL DEFAULT 100 CHECK (stock >= 0),
	    featured BOOLEAN NOT NULL DEFAULT 0,
	    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)`,

	`CREATE TABLE IF NOT EXISTS orders (
	    id INTEGER PRIMARY KEY AUTOINCREMENT,
	    customer_name VARCHAR(200) NOT NULL CHECK (length(customer_name) <= 200),
	    customer_email VARCHAR(200) NOT NULL CHECK (length(customer_email) <= 200),
	    product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
	    quantity INTEGER NOT NULL DEFAULT 1 CHECK (quantity >= 1),
	    total_price REAL NOT NULL CHECK (total_price >= 0),
	    status VARCHAR(50) NOT NULL DEFAULT 'Pending'
	        CHECK (status IN ('Pending', 'Confirmed', 'Shipped', 'Delivered', 'Cancelled')),
	    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_product_id ON orders(product_id)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,

	`CREATE TABLE IF NOT EXISTS reviews (
	    id INTEGER PRIMARY KEY AUTOINCREMENT,
	    product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
	    customer_name VARCHAR(200) NOT NULL CHECK (length(customer_name) <= 200),
	    customer_email VARCHAR(200) NOT NULL CHECK (length(customer_email) <= 200),
	    rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
	    comment TEXT NOT NULL,
	    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_product_id ON reviews(product_id)`,
}

// MySQL has no CREATE INDEX IF NOT EXISTS, so indexes are declared inline.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS admins (
	    id BIGINT PRIMARY KEY AUTO_INCREMENT,
	    username VARCHAR(100) NOT NULL,
	    password_hash VARCHAR(200) NOT NULL,
	    created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
	    UNIQUE KEY uk_admins_username (username),
	    CONSTRAINT chk_admins_username CHECK (CHAR_LENGTH(username) >= 1)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS products (
	    id BIGINT PRIMARY KEY AUTO_INCREMENT,
	    name VARCHAR(200) NOT NULL,
	    description TEXT NOT NULL,
	    price DOUBLE NOT NULL,
	    category VARCHAR(50) NOT NULL,
	    image_url VARCHAR(500) NULL,
	    video_url VARCHAR(500) NULL,
	    image_urls JSON NULL,
	    stock INT NOT NULL DEFAULT 100,
	    featured BOOLEAN NOT NULL DEFAULT FALSE,
	    created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
	    updated_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
	    INDEX idx_products_category (category),
	    CONSTRAINT chk_products_price CHECK (price >= 0),
	    CONSTRAINT chk_products_stock CHECK (stock >= 0)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS orders (
	    id BIGINT PRIMARY KEY AUTO_INCREMENT,
	    customer_name VARCHAR(200) NOT NULL,
	    customer_email VARCHAR(200) NOT NULL,
	    product_id BIGINT NOT NULL,
	    quantity INT NOT NULL DEFAULT 1,
	    total_price DOUBLE NOT NULL,
	    status VARCHAR(50) NOT NULL DEFAULT 'Pending',
	    created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
	    FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE RESTRICT,
	    INDEX idx_orders_product_id (product_id),
	    INDEX idx_orders_status (status),
	    CONSTRAINT chk_orders_quantity CHECK (quantity >= 1),
	    CONSTRAINT chk_orders_total CHECK (total_price >= 0),
	    CONSTRAINT chk_orders_status CHECK (status IN ('Pending', 'Confirmed', 'Shipped', 'Delivered', 'Cancelled'))
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS reviews (
	    id BIGINT PRIMARY KEY AUTO_INCREMENT,
	    product_id BIGINT NOT NULL,
	    customer_name VARCHAR(200) NOT NULL,
	    customer_email VARCHAR(200) NOT NULL,
	    rating INT NOT NULL,
	    comment TEXT NOT NULL,
	    created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
	    FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE RESTRICT,
	    INDEX idx_reviews_product_id (product_id),
	    CONSTRAINT chk_reviews_rating CHECK (rating BETWEEN 1 AND 5)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// SchemaStatements returns the DDL for the given driver.
func SchemaStatements(driver string) []string {
	if driver == config.DriverMySQL {
		return mysqlSchema
	}
	return sqliteSchema
}

// EnsureSchema creates the four tables and their indexes. Safe to call when they already exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	statements := SchemaStatements(db.driver)

	// MySQL commits DDL implicitly, so a transaction would not buy atomicity there.
	if db.driver == config.DriverMySQL {
		return execAll(ctx, db.DB, statements)
	}

	return db.WithTx(ctx, func(tx *sql.Tx) error {
		return execAll(ctx, tx, statements)
	})
}

// DropSchema removes all tables, children first. Reset uses it where there is no file to delete.
func (db *DB) DropSchema(ctx context.Context) error {
	statements := make([]string, 0, len(Tables))
	for i := len(Tables) - 1; i >= 0; i-- {
		statements = append(statements, "DROP TABLE IF EXISTS "+Tables[i])
	}
	return execAll(ctx, db.DB, statements)
}

// TableNames returns which of Tables exist in the store, in Tables order.
func (db *DB) TableNames(ctx context.Context) ([]string, error) {
	query := `SELECT name FROM sqlite_master WHERE type = 'table'`
	if db.driver == config.DriverMySQL {
		query = `SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE()`
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list tables: %v", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	present := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: failed to list tables: %v", ErrStorageUnavailable, err)
		}
		present[strings.ToLower(name)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to list tables: %v", ErrStorageUnavailable, err)
	}

	var names []string
	for _, t := range Tables {
		if present[t] {
			names = append(names, t)
		}
	}
	return names, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func execAll(ctx context.Context, e execer, statements []string) error {
	for _, stmt := range statements {
		if _, err := e.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
