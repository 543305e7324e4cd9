package client

import (
	"context"
	"net/url"
	"strconv"
)

func (o ListOptions) values() url.Values {
	q := url.Values{}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Offset > 0 {
		q.Set("offset", strconv.Itoa(o.Offset))
	}
	if o.Status != "" {
		q.Set("status", o.Status)
	}
	return q
}

func list[T any](ctx context.Context, c *Client, path string, q url.Values) ([]T, error) {
	var env envelope[[]T]
	if err := c.Get(ctx, path, q, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return []T{}, nil
	}
	return env.Data, nil
}

// Login authenticates and stores the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var env envelope[LoginResult]
	body := map[string]string{"email": email, "password": password}
	if err := c.Post(ctx, "/auth/login", body, &env); err != nil {
		return nil, err
	}
	if err := c.tokens.SetToken(ctx, env.Data.Token); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// Logout revokes the current token server-side and clears the store. The local
// token is cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.Post(ctx, "/auth/logout", nil, nil)
	if clearErr := c.tokens.Clear(ctx); clearErr != nil && err == nil {
		err = clearErr
	}
	return err
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var env envelope[User]
	if err := c.Get(ctx, "/auth/me", nil, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *Client) ListEmployees(ctx context.Context, opts ListOptions) ([]Employee, error) {
	return list[Employee](ctx, c, "/hr/employees", opts.values())
}

func (c *Client) ListLeaveRequests(ctx context.Context, opts ListOptions) ([]LeaveRequest, error) {
	return list[LeaveRequest](ctx, c, "/hr/leave-requests", opts.values())
}

// CalculateLeave asks the service for the working days between two YYYY-MM-DD dates.
func (c *Client) CalculateLeave(ctx context.Context, start, end string) (*LeaveCalculation, error) {
	var env envelope[LeaveCalculation]
	body := map[string]string{"start_date": start, "end_date": end}
	if err := c.Post(ctx, "/hr/leave-requests/calculate", body, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *Client) ListProducts(ctx context.Context, opts ListOptions) ([]Product, error) {
	return list[Product](ctx, c, "/inventory/products", opts.values())
}

// ListLowStock lists active products whose total stock is at or below their
// reorder level. Items carry OnHand.
func (c *Client) ListLowStock(ctx context.Context, opts ListOptions) ([]Product, error) {
	return list[Product](ctx, c, "/inventory/products/low-stock", opts.values())
}

func (c *Client) ListSales(ctx context.Context, opts ListOptions) ([]Sale, error) {
	return list[Sale](ctx, c, "/sales", opts.values())
}

func (c *Client) ListWarehouses(ctx context.Context) ([]Warehouse, error) {
	return list[Warehouse](ctx, c, "/warehouse/warehouses", nil)
}

func (c *Client) ListMovements(ctx context.Context, opts ListOptions) ([]Movement, error) {
	return list[Movement](ctx, c, "/warehouse/movements", opts.values())
}

func (c *Client) ListPurchaseOrders(ctx context.Context, opts ListOptions) ([]PurchaseOrder, error) {
	return list[PurchaseOrder](ctx, c, "/procurement/purchase-orders", opts.values())
}

func (c *Client) ListSurveys(ctx context.Context, opts ListOptions) ([]Survey, error) {
	return list[Survey](ctx, c, "/surveys", opts.values())
}

// Dashboard fetches the server-assembled summary.
func (c *Client) Dashboard(ctx context.Context) (*Dashboard, error) {
	var env envelope[Dashboard]
	if err := c.Get(ctx, "/reports/dashboard", nil, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}
