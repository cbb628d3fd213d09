// AngelaMos | 2026
// notifier.go

package notify

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/techzone/backoffice/internal/config"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	pageVerifyOTP    = "otp_verify.page.tmpl"
	pageResetOTP     = "otp_reset.page.tmpl"
	pageOrderConfirm = "order_confirm.page.tmpl"
	pageInvoice      = "invoice.page.tmpl"
	pagePreorder     = "preorder.page.tmpl"
)

type OrderMailItem struct {
	ProductName string
	Color       string
	Quantity    int
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// OrderMail is everything an order related email renders.
type OrderMail struct {
	OrderID       int64
	CustomerName  string
	Email         string
	OrderedAt     time.Time
	Items         []OrderMailItem
	DiscountCode  string
	DiscountValue decimal.Decimal
	Total         decimal.Decimal
}

type templateData struct {
	ShopName     string
	SupportEmail string
	Email        string
	Code         string
	ExpiresIn    string
	Link         string
	Order        *OrderMail
}

// Notifier renders and sends every customer facing email.
type Notifier struct {
	mailer    Mailer
	templates map[string]*template.Template
	shop      config.ShopConfig
}

func NewNotifier(mailer Mailer, shop config.ShopConfig) (*Notifier, error) {
	templates, err := newTemplateCache()
	if err != nil {
		return nil, err
	}

	return &Notifier{
		mailer:    mailer,
		templates: templates,
		shop:      shop,
	}, nil
}

func newTemplateCache() (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"money": formatMoney,
		"date": func(t time.Time) string {
			return t.Format("02/01/2006 15:04")
		},
	}

	pages, err := fs.Glob(templateFS, "templates/*.page.tmpl")
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	cache := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		ts, err := template.New(path.Base(page)).Funcs(funcs).ParseFS(
			templateFS,
			"templates/base.layout.tmpl",
			"templates/*.partial.tmpl",
			page,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		cache[path.Base(page)] = ts
	}

	return cache, nil
}

func (n *Notifier) SendVerificationOTP(ctx context.Context, email, code string) error {
	return n.send(ctx, email, "Your verification code", pageVerifyOTP, templateData{
		Email:     email,
		Code:      code,
		ExpiresIn: humanDuration(n.shop.OTPTTL),
	})
}

func (n *Notifier) SendPasswordResetOTP(ctx context.Context, email, code string) error {
	return n.send(ctx, email, "Password reset code", pageResetOTP, templateData{
		Email:     email,
		Code:      code,
		ExpiresIn: humanDuration(n.shop.OTPTTL),
	})
}

func (n *Notifier) SendOrderConfirmation(ctx context.Context, order OrderMail) error {
	link := n.shop.URL(n.shop.ConfirmOrderPath) + "?orderId=" +
		strconv.FormatInt(order.OrderID, 10)

	return n.send(
		ctx,
		order.Email,
		fmt.Sprintf("Please confirm order #%d", order.OrderID),
		pageOrderConfirm,
		templateData{Order: &order, Link: link},
	)
}

func (n *Notifier) SendInvoice(ctx context.Context, order OrderMail) error {
	return n.send(
		ctx,
		order.Email,
		fmt.Sprintf("Invoice for order #%d", order.OrderID),
		pageInvoice,
		templateData{Order: &order},
	)
}

func (n *Notifier) SendPreorderAvailable(ctx context.Context, order OrderMail) error {
	return n.send(
		ctx,
		order.Email,
		"Your pre-ordered items have arrived",
		pagePreorder,
		templateData{Order: &order, Link: n.shop.FrontendURL},
	)
}

func (n *Notifier) send(
	ctx context.Context,
	to, subject, page string,
	data templateData,
) error {
	if to == "" {
		return fmt.Errorf("send %s: recipient has no email address", page)
	}

	ts, ok := n.templates[page]
	if !ok {
		return fmt.Errorf("send %s: template not found", page)
	}

	data.ShopName = n.shop.Name
	data.SupportEmail = n.shop.SupportEmail

	var body bytes.Buffer
	if err := ts.ExecuteTemplate(&body, "base", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	return n.mailer.Send(ctx, Message{
		To:       to,
		Subject:  fmt.Sprintf("[%s] %s", n.shop.Name, subject),
		HTMLBody: body.String(),
	})
}

// formatMoney renders whole VND with dot thousands separators.
func formatMoney(d decimal.Decimal) string {
	s := d.Round(0).Abs().StringFixed(0)

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	if d.IsNegative() {
		return "-" + b.String() + " VND"
	}
	return b.String() + " VND"
}

func humanDuration(d time.Duration) string {
	if d%time.Minute == 0 {
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	}
	return d.String()
}
