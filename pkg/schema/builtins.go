package schema

// builtinSchemas seeds the registry at startup. The retail test-automation
// domain (spec.md section 1) centers on cart/order/payment/user/review; a
// product schema backs inventory-flavoured scenarios used by the
// constraint/domain_rules adaptation.
func builtinSchemas() []*Schema {
	return []*Schema{
		userSchema(),
		cartSchema(),
		orderSchema(),
		reviewSchema(),
		productSchema(),
		paymentSchema(),
	}
}

func field(t FieldType, required bool, desc string) *FieldDef {
	return &FieldDef{Type: t, Required: required, Description: desc}
}

func userSchema() *Schema {
	order := []string{"user_id", "email", "first_name", "last_name", "phone", "created_at"}
	return &Schema{
		Name:        "user",
		Domain:      "ecommerce",
		Description: "A registered storefront customer account",
		FieldOrder:  order,
		Fields: map[string]*FieldDef{
			"user_id":    field(TypeUUID, true, "Unique account identifier"),
			"email":      field(TypeEmail, true, "Account email address"),
			"first_name": field(TypeString, true, "Given name"),
			"last_name":  field(TypeString, true, "Family name"),
			"phone":      field(TypePhone, false, "Contact phone number"),
			"created_at": field(TypeDateTime, true, "Account creation timestamp"),
		},
	}
}

func cartSchema() *Schema {
	order := []string{"cart_id", "user_id", "items", "subtotal", "tax", "total", "created_at", "updated_at"}
	itemOrder := []string{"sku", "name", "category", "quantity", "unit_price"}
	items := &FieldDef{
		Type:     TypeArray,
		Required: true,
		ItemSchema: &FieldDef{
			Type:       TypeObject,
			FieldOrder: itemOrder,
			Fields: map[string]*FieldDef{
				"sku":        {Type: TypeString, Required: true, Pattern: `^[A-Z]{2}[0-9]{6}$`, Description: "Stock keeping unit"},
				"name":       field(TypeString, true, "Item name"),
				"category":   field(TypeString, false, "Item category"),
				"quantity":   field(TypeInteger, true, "Quantity in cart"),
				"unit_price": field(TypeFloat, true, "Per-unit price"),
			},
		},
	}
	return &Schema{
		Name:        "cart",
		Domain:      "ecommerce",
		Description: "A shopping cart with line items and running totals",
		FieldOrder:  order,
		CoherenceRules: []string{
			"Items in a cart should belong to a coherent shopping occasion.",
			"total must equal subtotal plus tax.",
		},
		Fields: map[string]*FieldDef{
			"cart_id":    field(TypeUUID, true, "Unique cart identifier"),
			"user_id":    field(TypeUUID, true, "Owning user identifier"),
			"items":      items,
			"subtotal":   field(TypeFloat, true, "Sum of line items before tax"),
			"tax":        field(TypeFloat, true, "Tax amount"),
			"total":      field(TypeFloat, true, "subtotal + tax"),
			"created_at": field(TypeDateTime, true, "Cart creation timestamp"),
			"updated_at": field(TypeDateTime, false, "Last modification timestamp"),
		},
	}
}

func orderSchema() *Schema {
	order := []string{"order_id", "user_id", "items", "subtotal", "tax", "shipping", "discount", "total", "status", "created_at", "updated_at", "shipped_at"}
	itemOrder := []string{"sku", "name", "quantity", "unit_price"}
	items := &FieldDef{
		Type:     TypeArray,
		Required: true,
		ItemSchema: &FieldDef{
			Type:       TypeObject,
			FieldOrder: itemOrder,
			Fields: map[string]*FieldDef{
				"sku":        {Type: TypeString, Required: true, Pattern: `^[A-Z]{2}[0-9]{6}$`, Description: "Stock keeping unit"},
				"name":       field(TypeString, true, "Item name"),
				"quantity":   field(TypeInteger, true, "Quantity ordered"),
				"unit_price": field(TypeFloat, true, "Per-unit price"),
			},
		},
	}
	return &Schema{
		Name:        "order",
		Domain:      "ecommerce",
		Description: "A placed order with totals and fulfilment status",
		FieldOrder:  order,
		CoherenceRules: []string{
			"total must equal subtotal + tax + shipping - discount.",
			"created_at must precede shipped_at.",
		},
		Fields: map[string]*FieldDef{
			"order_id":   field(TypeUUID, true, "Unique order identifier"),
			"user_id":    field(TypeUUID, true, "Ordering user identifier"),
			"items":      items,
			"subtotal":   field(TypeFloat, true, "Sum of line items before tax"),
			"tax":        field(TypeFloat, true, "Tax amount"),
			"shipping":   field(TypeFloat, true, "Shipping cost"),
			"discount":   field(TypeFloat, false, "Discount amount"),
			"total":      field(TypeFloat, true, "subtotal + tax + shipping - discount"),
			"status":     &FieldDef{Type: TypeEnum, Required: true, Values: []interface{}{"pending", "paid", "shipped", "delivered", "cancelled"}},
			"created_at": field(TypeDateTime, true, "Order placement timestamp"),
			"updated_at": field(TypeDateTime, false, "Last status change timestamp"),
			"shipped_at": field(TypeDateTime, false, "Shipment timestamp"),
		},
	}
}

func reviewSchema() *Schema {
	order := []string{"review_id", "user_id", "sku", "rating", "title", "body", "created_at"}
	return &Schema{
		Name:        "review",
		Domain:      "ecommerce",
		Description: "A product review left by a customer",
		FieldOrder:  order,
		Fields: map[string]*FieldDef{
			"review_id":  field(TypeUUID, true, "Unique review identifier"),
			"user_id":    field(TypeUUID, true, "Reviewing user identifier"),
			"sku":        {Type: TypeString, Required: true, Pattern: `^[A-Z]{2}[0-9]{6}$`, Description: "Reviewed product SKU"},
			"rating":     &FieldDef{Type: TypeInteger, Required: true, Min: floatPtr(1), Max: floatPtr(5), Description: "Star rating 1-5"},
			"title":      field(TypeString, false, "Review headline"),
			"body":       field(TypeString, true, "Review text"),
			"created_at": field(TypeDateTime, true, "Submission timestamp"),
		},
	}
}

func productSchema() *Schema {
	order := []string{"sku", "name", "category", "description", "base_price", "sale_price", "stock_quantity", "warehouse_location"}
	return &Schema{
		Name:        "product",
		Domain:      "ecommerce",
		Description: "A catalog product with pricing and inventory",
		FieldOrder:  order,
		Fields: map[string]*FieldDef{
			"sku":                {Type: TypeString, Required: true, Pattern: `^[A-Z]{2}[0-9]{6}$`, Description: "Stock keeping unit"},
			"name":               field(TypeString, true, "Product name"),
			"category":           field(TypeString, false, "Product category"),
			"description":        field(TypeString, false, "Product description"),
			"base_price":         field(TypeFloat, true, "List price"),
			"sale_price":         field(TypeFloat, false, "Discounted price, must be less than base_price"),
			"stock_quantity":     field(TypeInteger, true, "Units in stock"),
			"warehouse_location": {Type: TypeString, Required: false, Pattern: `^[A-Z]{2}-[A-Z]{3}-[0-9]{3}$`, Description: "Warehouse slot code"},
		},
	}
}

func paymentSchema() *Schema {
	order := []string{"payment_id", "order_id", "amount", "currency", "method", "status", "created_at"}
	return &Schema{
		Name:        "payment",
		Domain:      "ecommerce",
		Description: "A payment transaction applied to an order",
		FieldOrder:  order,
		Fields: map[string]*FieldDef{
			"payment_id": field(TypeUUID, true, "Unique payment identifier"),
			"order_id":   field(TypeUUID, true, "Associated order identifier"),
			"amount":     field(TypeFloat, true, "Payment amount"),
			"currency":   &FieldDef{Type: TypeEnum, Required: true, Values: []interface{}{"USD", "EUR", "GBP", "CAD", "AUD"}},
			"method":     &FieldDef{Type: TypeEnum, Required: true, Values: []interface{}{"credit_card", "debit_card", "paypal", "gift_card"}},
			"status":     &FieldDef{Type: TypeEnum, Required: true, Values: []interface{}{"authorized", "captured", "failed", "refunded"}},
			"created_at": field(TypeDateTime, true, "Payment timestamp"),
		},
	}
}

func floatPtr(f float64) *float64 { return &f }
