package database

// Migration bookkeeping
const (
	CreateMigrationsTableSQL = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			migration_name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		)`

	ListMigrationsSQL = `SELECT migration_name FROM schema_migrations`

	RecordMigrationSQL = `INSERT INTO schema_migrations (migration_name) VALUES ($1)`
)

// Account queries
const (
	GetSuperadminByLoginSQL = `
		SELECT id, login, password_hash FROM superadmins WHERE login = $1`

	UpsertSuperadminSQL = `
		INSERT INTO superadmins (login, password_hash) VALUES ($1, $2)
		ON CONFLICT (login) DO UPDATE SET password_hash = EXCLUDED.password_hash
		RETURNING id`

	GetEmployeeByLoginSQL = `
		SELECT id, tenant_id, full_name, phone, email, login, password_hash, role, created_at
		FROM employees WHERE login = $1`
)

// Tenant queries
const (
	InsertTenantSQL = `
		INSERT INTO tenants (name, street, city, phone, email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	ListTenantsSQL = `
		SELECT id, name, street, city, phone, email, created_at
		FROM tenants ORDER BY name`

	GetTenantSQL = `
		SELECT id, name, street, city, phone, email, created_at
		FROM tenants WHERE id = $1`

	UpdateTenantSQL = `
		UPDATE tenants SET name = $2, street = $3, city = $4, phone = $5, email = $6
		WHERE id = $1`

	DeleteTenantEmployeesSQL = `DELETE FROM employees WHERE tenant_id = $1`

	DeleteTenantSQL = `DELETE FROM tenants WHERE id = $1`
)

// Employee queries
const (
	InsertEmployeeSQL = `
		INSERT INTO employees (tenant_id, full_name, phone, email, login, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	ListEmployeesSQL = `
		SELECT id, tenant_id, full_name, phone, email, login, password_hash, role, created_at
		FROM employees WHERE tenant_id = $1 ORDER BY full_name`

	GetEmployeeSQL = `
		SELECT id, tenant_id, full_name, phone, email, login, password_hash, role, created_at
		FROM employees WHERE tenant_id = $1 AND id = $2`

	UpdateEmployeeSQL = `
		UPDATE employees SET full_name = $3, phone = $4, email = $5, login = $6, role = $7
		WHERE tenant_id = $1 AND id = $2`

	UpdateEmployeePasswordSQL = `
		UPDATE employees SET password_hash = $3 WHERE tenant_id = $1 AND id = $2`

	DeleteEmployeeSQL = `DELETE FROM employees WHERE tenant_id = $1 AND id = $2`
)

// Position queries
const (
	InsertPositionSQL = `
		INSERT INTO positions (tenant_id, name, hourly_rate)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	ListPositionsSQL = `
		SELECT p.id, p.tenant_id, p.name, p.hourly_rate, COUNT(ep.employee_id), p.created_at
		FROM positions p
		LEFT JOIN employee_positions ep ON ep.position_id = p.id
		WHERE p.tenant_id = $1
		GROUP BY p.id
		ORDER BY p.name`

	CountPositionAssignmentsSQL = `
		SELECT COUNT(*) FROM employee_positions ep
		JOIN positions p ON p.id = ep.position_id
		WHERE p.tenant_id = $1 AND ep.position_id = $2`

	DeletePositionSQL = `DELETE FROM positions WHERE tenant_id = $1 AND id = $2`

	AssignPositionSQL = `
		INSERT INTO employee_positions (employee_id, position_id)
		SELECT e.id, p.id FROM employees e, positions p
		WHERE e.id = $2 AND p.id = $3 AND e.tenant_id = $1 AND p.tenant_id = $1
		ON CONFLICT DO NOTHING`

	UnassignPositionSQL = `
		DELETE FROM employee_positions ep USING positions p
		WHERE p.id = ep.position_id AND p.tenant_id = $1 AND ep.employee_id = $2 AND ep.position_id = $3`
)

// Category and size queries
const (
	InsertCategorySQL = `
		INSERT INTO categories (tenant_id, name) VALUES ($1, $2)
		RETURNING id, created_at`

	ListCategoriesSQL = `
		SELECT id, tenant_id, name, created_at
		FROM categories WHERE tenant_id = $1 ORDER BY name`

	GetCategorySQL = `
		SELECT id, tenant_id, name, created_at
		FROM categories WHERE tenant_id = $1 AND id = $2`

	RenameCategorySQL = `UPDATE categories SET name = $3 WHERE tenant_id = $1 AND id = $2`

	DeleteCategorySQL = `DELETE FROM categories WHERE tenant_id = $1 AND id = $2`

	CountCategorySizesSQL = `SELECT COUNT(*) FROM sizes WHERE category_id = $1`

	CountCategoryProductsSQL = `SELECT COUNT(*) FROM products WHERE category_id = $1`

	InsertSizeSQL = `
		INSERT INTO sizes (category_id, name) VALUES ($1, $2)
		RETURNING id, created_at`

	ListSizesByCategorySQL = `
		SELECT id, category_id, name, created_at
		FROM sizes WHERE category_id = $1 ORDER BY id`

	ListSizesByTenantSQL = `
		SELECT s.id, s.category_id, s.name, s.created_at
		FROM sizes s JOIN categories c ON c.id = s.category_id
		WHERE c.tenant_id = $1 ORDER BY s.category_id, s.id`

	GetSizeSQL = `
		SELECT s.id, s.category_id, s.name, s.created_at
		FROM sizes s JOIN categories c ON c.id = s.category_id
		WHERE c.tenant_id = $1 AND s.id = $2`

	RenameSizeSQL = `
		UPDATE sizes s SET name = $3 FROM categories c
		WHERE c.id = s.category_id AND c.tenant_id = $1 AND s.id = $2`

	DeleteSizeSQL = `
		DELETE FROM sizes s USING categories c
		WHERE c.id = s.category_id AND c.tenant_id = $1 AND s.id = $2`
)

// Ingredient queries
const (
	InsertIngredientTypeSQL = `
		INSERT INTO ingredient_types (tenant_id, name) VALUES ($1, $2)
		RETURNING id, created_at`

	ListIngredientTypesSQL = `
		SELECT id, tenant_id, name, created_at
		FROM ingredient_types WHERE tenant_id = $1 ORDER BY name`

	GetIngredientTypeSQL = `
		SELECT id, tenant_id, name, created_at
		FROM ingredient_types WHERE tenant_id = $1 AND id = $2`

	RenameIngredientTypeSQL = `UPDATE ingredient_types SET name = $3 WHERE tenant_id = $1 AND id = $2`

	DeleteIngredientTypeSQL = `DELETE FROM ingredient_types WHERE tenant_id = $1 AND id = $2`

	CountIngredientsOfTypeSQL = `SELECT COUNT(*) FROM ingredients WHERE type_id = $1`

	InsertIngredientSQL = `
		INSERT INTO ingredients (tenant_id, type_id, name) VALUES ($1, $2, $3)
		RETURNING id, created_at`

	ListIngredientsSQL = `
		SELECT i.id, i.tenant_id, i.type_id, t.name, i.name, i.created_at
		FROM ingredients i JOIN ingredient_types t ON t.id = i.type_id
		WHERE i.tenant_id = $1 ORDER BY t.name, i.name`

	GetIngredientSQL = `
		SELECT i.id, i.tenant_id, i.type_id, t.name, i.name, i.created_at
		FROM ingredients i JOIN ingredient_types t ON t.id = i.type_id
		WHERE i.tenant_id = $1 AND i.id = $2`

	UpdateIngredientSQL = `UPDATE ingredients SET name = $3, type_id = $4 WHERE tenant_id = $1 AND id = $2`

	DeleteIngredientSQL = `DELETE FROM ingredients WHERE tenant_id = $1 AND id = $2`

	CountProductsUsingIngredientSQL = `SELECT COUNT(*) FROM product_ingredients WHERE ingredient_id = $1`

	UpsertIngredientTypePriceSQL = `
		INSERT INTO ingredient_type_prices (type_id, size_id, price) VALUES ($1, $2, $3)
		ON CONFLICT (type_id, size_id) DO UPDATE SET price = EXCLUDED.price`

	ListIngredientTypePricesSQL = `
		SELECT p.type_id, t.name, p.size_id, p.price
		FROM ingredient_type_prices p JOIN ingredient_types t ON t.id = p.type_id
		WHERE p.size_id = $1 ORDER BY t.name`
)

// Product queries
const (
	InsertProductSQL = `
		INSERT INTO products (tenant_id, category_id, name) VALUES ($1, $2, $3)
		RETURNING id, created_at`

	ListProductsByTenantSQL = `
		SELECT id, tenant_id, category_id, name, created_at
		FROM products WHERE tenant_id = $1 ORDER BY category_id, name`

	ListProductsByCategorySQL = `
		SELECT id, tenant_id, category_id, name, created_at
		FROM products WHERE tenant_id = $1 AND category_id = $2 ORDER BY name`

	GetProductSQL = `
		SELECT id, tenant_id, category_id, name, created_at
		FROM products WHERE tenant_id = $1 AND id = $2`

	RenameProductSQL = `UPDATE products SET name = $3 WHERE tenant_id = $1 AND id = $2`

	DeleteProductSQL = `DELETE FROM products WHERE tenant_id = $1 AND id = $2`

	UpsertProductPriceSQL = `
		INSERT INTO product_prices (product_id, size_id, base_price) VALUES ($1, $2, $3)
		ON CONFLICT (product_id, size_id) DO UPDATE SET base_price = EXCLUDED.base_price`

	DeleteProductPricesSQL = `DELETE FROM product_prices WHERE product_id = $1`

	ListProductPricesByTenantSQL = `
		SELECT pp.product_id, pp.size_id, pp.base_price
		FROM product_prices pp JOIN products p ON p.id = pp.product_id
		WHERE p.tenant_id = $1`

	GetProductPriceSQL = `
		SELECT base_price FROM product_prices WHERE product_id = $1 AND size_id = $2`

	InsertProductIngredientSQL = `
		INSERT INTO product_ingredients (product_id, ingredient_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	DeleteProductIngredientsSQL = `DELETE FROM product_ingredients WHERE product_id = $1`

	ListProductIngredientsSQL = `
		SELECT i.id, i.tenant_id, i.type_id, t.name, i.name, i.created_at
		FROM product_ingredients pi
		JOIN ingredients i ON i.id = pi.ingredient_id
		JOIN ingredient_types t ON t.id = i.type_id
		WHERE pi.product_id = $1 ORDER BY i.name`
)

// Order queries
const (
	// NextOrderSequenceSQL bumps the per-tenant daily counter atomically. Two
	// concurrent submissions serialise on the counter row.
	NextOrderSequenceSQL = `
		INSERT INTO order_counters (tenant_id, day, last_seq) VALUES ($1, $2, 1)
		ON CONFLICT (tenant_id, day) DO UPDATE SET last_seq = order_counters.last_seq + 1
		RETURNING last_seq`

	InsertOrderSQL = `
		INSERT INTO orders (tenant_id, employee_id, created_by, number, kind, payment_method, payment_status,
			status, table_number, address, phone, notes, scheduled_at, total_amount, business_day)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'new', $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at`

	InsertOrderLineSQL = `
		INSERT INTO order_lines (order_id, product_id, size_id, product_name, size_name, base_price, unit_price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	InsertLineModificationSQL = `
		INSERT INTO line_modifications (line_id, ingredient_id, ingredient_name, action, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	orderColumns = `
		id, tenant_id, employee_id, created_by, number, kind, payment_method, payment_status, status,
		table_number, address, phone, notes, scheduled_at, total_amount, created_at`

	ListOrdersSQL = `SELECT ` + orderColumns + `
		FROM orders
		WHERE tenant_id = $1 AND (cardinality($2::text[]) = 0 OR status = ANY($2::text[]))
		ORDER BY created_at DESC
		LIMIT $3`

	GetOrderSQL = `SELECT ` + orderColumns + `
		FROM orders WHERE tenant_id = $1 AND id = $2`

	ListOrderLinesSQL = `
		SELECT id, product_id, size_id, product_name, size_name, base_price, unit_price, quantity
		FROM order_lines WHERE order_id = $1 ORDER BY id`

	ListOrderModificationsSQL = `
		SELECT m.id, m.line_id, m.ingredient_id, m.ingredient_name, m.action, m.price
		FROM line_modifications m JOIN order_lines l ON l.id = m.line_id
		WHERE l.order_id = $1 ORDER BY m.id`

	UpdateOrderStatusSQL = `
		UPDATE orders SET status = $4, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2 AND status = $3`

	UpdateOrderPaymentSQL = `
		UPDATE orders SET payment_method = $3, payment_status = $4, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2`

	InsertStatusLogSQL = `
		INSERT INTO order_status_log (order_id, status, changed_by) VALUES ($1, $2, $3)`
)

// Tracking queries
const (
	ListStatusHistorySQL = `
		SELECT l.status, l.changed_by, l.changed_at
		FROM order_status_log l JOIN orders o ON o.id = l.order_id
		WHERE o.tenant_id = $1 AND o.id = $2
		ORDER BY l.changed_at, l.id`

	OrderExistsSQL = `SELECT EXISTS (SELECT 1 FROM orders WHERE tenant_id = $1 AND id = $2)`
)
