// Package htmldriver implements the page driver contract over plain HTTP and
// server-rendered HTML. It keeps one authenticated session (cookie jar) and
// one current page; form writes are buffered locally and sent as a single
// form-encoded POST on submit, which matches how the admin UIs it targets
// actually work.
//
// Selector support is deliberately narrow: "#id" for controls and
// "tag.class" for tables and banners. The strategies only use those two
// shapes.
package htmldriver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"shuttle/internal/config"
	"shuttle/internal/logging"
	"shuttle/internal/pagedriver"
	"shuttle/internal/services"
)

// maxPageBytes bounds how much of a response body is read.
const maxPageBytes = 8 << 20

// Driver is a single-session HTTP page driver.
type Driver struct {
	client *http.Client
	logger *slog.Logger
	page   *page
}

type page struct {
	url     *url.URL
	raw     []byte
	doc     *html.Node
	overlay map[string]string
}

// New constructs a driver with its own cookie-jar session.
func New(cfg *config.Config, logger *slog.Logger) (*Driver, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Driver{
		client: &http.Client{
			Jar:     jar,
			Timeout: time.Duration(cfg.Downloads.RequestTimeout) * time.Second,
		},
		logger: logging.NewComponentLogger(logger, "htmldriver"),
	}, nil
}

// Navigate loads a page by URL.
func (d *Driver) Navigate(ctx context.Context, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return services.Wrap(services.ErrNavigation, "", "build request", target, err)
	}
	return d.load(req)
}

func (d *Driver) load(req *http.Request) error {
	resp, err := d.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrNavigation, "", "fetch page", req.URL.String(), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return services.Wrap(services.ErrNavigation, "", "fetch page",
			fmt.Sprintf("%s returned status %d", req.URL, resp.StatusCode), nil)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return services.Wrap(services.ErrNavigation, "", "read page body", req.URL.String(), err)
	}
	doc, err := html.Parse(strings.NewReader(string(raw)))
	if err != nil {
		return services.Wrap(services.ErrNavigation, "", "parse page", req.URL.String(), err)
	}
	d.page = &page{
		url:     resp.Request.URL,
		raw:     raw,
		doc:     doc,
		overlay: map[string]string{},
	}
	d.logger.Debug("page loaded",
		logging.String("url", resp.Request.URL.String()),
		logging.Int("bytes", len(raw)))
	return nil
}

func (d *Driver) current() (*page, error) {
	if d.page == nil {
		return nil, services.Wrap(services.ErrNavigation, "", "current page", "no page loaded", nil)
	}
	return d.page, nil
}

// RenderedSize returns the byte length of the current page. Server-rendered
// pages do not change size after load, so one stable read suffices; the
// measure exists for the shared stability contract.
func (d *Driver) RenderedSize(context.Context) (int, error) {
	p, err := d.current()
	if err != nil {
		return 0, err
	}
	return len(p.raw), nil
}

// ExtractRows scrapes the table matching spec.Selector. Cells map to
// spec.Columns in document order; the href column is taken from the row's
// first link rather than cell text.
func (d *Driver) ExtractRows(_ context.Context, spec pagedriver.TableSpec) ([]pagedriver.Row, error) {
	p, err := d.current()
	if err != nil {
		return nil, err
	}
	table := findBySelector(p.doc, spec.Selector)
	if table == nil {
		return nil, services.Wrap(services.ErrNavigation, "", "extract rows",
			fmt.Sprintf("no table matches %q", spec.Selector), nil)
	}

	var rows []pagedriver.Row
	for _, tr := range findAll(table, "tr") {
		if len(findAll(tr, "th")) > 0 {
			continue
		}
		cells := findAll(tr, "td")
		if len(cells) == 0 {
			continue
		}
		row := pagedriver.Row{}
		for i, col := range spec.Columns {
			if i < len(cells) {
				row[col] = strings.TrimSpace(nodeText(cells[i]))
			}
		}
		if anchor := find(tr, func(n *html.Node) bool { return n.Data == "a" && attr(n, "href") != "" }); anchor != nil {
			row["href"] = attr(anchor, "href")
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadField returns a control's effective value: a locally buffered write
// when present, otherwise the value rendered in the page.
func (d *Driver) ReadField(_ context.Context, selector string) (string, bool, error) {
	p, err := d.current()
	if err != nil {
		return "", false, err
	}
	if value, ok := p.overlay[selector]; ok {
		return value, true, nil
	}
	node := findBySelector(p.doc, selector)
	if node == nil {
		return "", false, nil
	}
	return controlValue(node), true, nil
}

// WriteField buffers a value for the control; it is sent on Submit.
func (d *Driver) WriteField(_ context.Context, selector, value string) (bool, error) {
	p, err := d.current()
	if err != nil {
		return false, err
	}
	if findBySelector(p.doc, selector) == nil {
		return false, nil
	}
	p.overlay[selector] = value
	return true, nil
}

// SelectOption buffers a select control's option choice by value.
func (d *Driver) SelectOption(_ context.Context, selector, value string) (bool, error) {
	p, err := d.current()
	if err != nil {
		return false, err
	}
	node := findBySelector(p.doc, selector)
	if node == nil || node.Data != "select" {
		return false, nil
	}
	p.overlay[selector] = value
	return true, nil
}

// Click activates an element: links are followed, buttons post the current
// form with the button's name and value included.
func (d *Driver) Click(ctx context.Context, selector string) (bool, error) {
	p, err := d.current()
	if err != nil {
		return false, err
	}
	node := findBySelector(p.doc, selector)
	if node == nil {
		return false, nil
	}
	switch node.Data {
	case "a":
		href := attr(node, "href")
		if href == "" {
			return true, nil
		}
		resolved, err := p.url.Parse(href)
		if err != nil {
			return true, services.Wrap(services.ErrNavigation, "", "resolve link", href, err)
		}
		return true, d.Navigate(ctx, resolved.String())
	default:
		return true, d.submitForm(ctx, attr(node, "name"), attr(node, "value"))
	}
}

// Submit posts the current form with all buffered writes.
func (d *Driver) Submit(ctx context.Context) error {
	return d.submitForm(ctx, "", "")
}

func (d *Driver) submitForm(ctx context.Context, buttonName, buttonValue string) error {
	p, err := d.current()
	if err != nil {
		return err
	}
	form := find(p.doc, func(n *html.Node) bool { return n.Data == "form" })
	if form == nil {
		return services.Wrap(services.ErrNavigation, "", "submit form", "no form on page", nil)
	}

	values := url.Values{}
	for _, control := range findAll(form, "input", "select", "textarea") {
		name := attr(control, "name")
		if name == "" {
			continue
		}
		value := controlValue(control)
		if id := attr(control, "id"); id != "" {
			if buffered, ok := p.overlay["#"+id]; ok {
				value = buffered
			}
		}
		values.Set(name, value)
	}
	if buttonName != "" {
		values.Set(buttonName, buttonValue)
	}

	action := p.url
	if raw := attr(form, "action"); raw != "" {
		resolved, err := p.url.Parse(raw)
		if err != nil {
			return services.Wrap(services.ErrNavigation, "", "resolve form action", raw, err)
		}
		action = resolved
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, action.String(),
		strings.NewReader(values.Encode()))
	if err != nil {
		return services.Wrap(services.ErrNavigation, "", "build form request", action.String(), err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return d.load(req)
}

// ReadBanner reads the post-submit outcome banner by class.
func (d *Driver) ReadBanner(context.Context) (pagedriver.Banner, error) {
	p, err := d.current()
	if err != nil {
		return pagedriver.Banner{}, err
	}
	if node := findBySelector(p.doc, "div.banner-success"); node != nil {
		banner := pagedriver.Banner{
			Kind:    pagedriver.BannerSuccess,
			Message: strings.TrimSpace(nodeText(node)),
		}
		if anchor := find(node, func(n *html.Node) bool { return n.Data == "a" && attr(n, "href") != "" }); anchor != nil {
			banner.Href = attr(anchor, "href")
		}
		return banner, nil
	}
	if node := findBySelector(p.doc, "div.banner-error"); node != nil {
		return pagedriver.Banner{
			Kind:    pagedriver.BannerError,
			Message: strings.TrimSpace(nodeText(node)),
		}, nil
	}
	return pagedriver.Banner{}, nil
}

// Close releases idle connections; the session has no other state to tear
// down.
func (d *Driver) Close() error {
	d.client.CloseIdleConnections()
	return nil
}
