package permission

// Definition is one entry of the canonical permission catalog.
type Definition struct {
	Description    string
	DefaultGranted bool
}

// Catalog is the canonical permission set the registry reconciles the
// database against. Permissions absent from this map are removed on sync;
// new entries are created. Existing rows are never rewritten.
func Catalog() map[string]Definition {
	return map[string]Definition{
		// user management
		"view_users":                 {"View user list", false},
		"view_user_details":          {"View user details", false},
		"create_user":                {"Create a new user", false},
		"edit_user":                  {"Edit user information", false},
		"delete_user":                {"Delete a user", false},
		"activate_deactivate_user":   {"Activate or deactivate a user", false},
		"manage_user_permissions":    {"Manage per-user permissions", false},

		// group management
		"view_groups":              {"View group list", false},
		"view_group_details":       {"View group details", false},
		"create_group":             {"Create a new group", false},
		"edit_group":               {"Edit group information", false},
		"delete_group":             {"Delete a group", false},
		"manage_group_members":     {"Manage group members", false},
		"manage_group_permissions": {"Manage group permissions", false},

		// permission management
		"view_permissions":  {"View permission list", false},
		"create_permission": {"Create a new permission", false},
		"edit_permission":   {"Edit a permission", false},
		"delete_permission": {"Delete a permission", false},

		// product management
		"view_products":            {"View product list", true},
		"view_product_details":     {"View product details", true},
		"create_product":           {"Create a new product", false},
		"edit_product":             {"Edit product information", false},
		"delete_product":           {"Delete a product", false},
		"manage_featured_products": {"Manage featured products", false},
		"manage_product_stock":     {"Manage product stock levels", false},

		// category management
		"view_categories": {"View category list", true},
		"create_category": {"Create a new category", false},
		"edit_category":   {"Edit a category", false},
		"delete_category": {"Delete a category", false},

		// cart management
		"create_cart":  {"Add products to cart", true},
		"view_carts":   {"View user carts", false},
		"edit_carts":   {"Edit user carts", false},
		"delete_carts": {"Delete user carts", false},

		// wishlist management
		"view_wishlists":   {"View user wishlists", false},
		"edit_wishlists":   {"Edit user wishlists", false},
		"delete_wishlists": {"Remove products from wishlists", false},

		// coupon management
		"view_coupons":               {"View coupon list", false},
		"create_coupon":              {"Create a new coupon", false},
		"edit_coupon":                {"Edit a coupon", false},
		"delete_coupon":              {"Delete a coupon", false},
		"activate_deactivate_coupon": {"Activate or deactivate a coupon", false},

		// order management
		"view_orders":            {"View order list", false},
		"view_order_details":     {"View order details", false},
		"update_shipping_status": {"Update shipping status", false},
		"update_payment_status":  {"Update payment status", false},
		"delete_order":           {"Delete an order", false},

		// review management
		"view_reviews":               {"View review list", true},
		"approve_disapprove_review":  {"Approve or disapprove a review", false},
		"delete_review":              {"Delete a review", false},

		// system administration
		"access_admin_dashboard": {"Access the admin dashboard", false},
		"manage_system_settings": {"Manage system settings", false},
		"view_system_logs":       {"View system logs", false},
	}
}
