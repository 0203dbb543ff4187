package upstream

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	ordersync "github.com/orderdesk/backend/internal/application/sync"
	"github.com/orderdesk/backend/internal/domain/order"
)

// AssetClient talks to the photo endpoints. Uploads are multipart
// batches: the call succeeds or fails as a whole.
type AssetClient struct {
	client *Client
}

var _ ordersync.AssetClient = (*AssetClient)(nil)

// NewAssetClient creates an AssetClient
func NewAssetClient(client *Client) *AssetClient {
	return &AssetClient{client: client}
}

// Upload posts a multipart batch of photos for one record
func (c *AssetClient) Upload(ctx context.Context, orderID int64, kind order.AssetOwnerKind, ownerID int64, assets []order.PendingAsset) error {
	if len(assets) == 0 {
		return nil
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, a := range assets {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, a.Name))
		if a.ContentType != "" {
			header.Set("Content-Type", a.ContentType)
		}
		part, err := writer.CreatePart(header)
		if err != nil {
			return fmt.Errorf("upstream: build multipart: %w", err)
		}
		if _, err := part.Write(a.Data); err != nil {
			return fmt.Errorf("upstream: build multipart: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("upstream: build multipart: %w", err)
	}

	url := strings.TrimSuffix(c.client.config.BaseURL, "/") + c.path(orderID, kind, ownerID)
	return c.client.do(ctx, "POST", url, writer.FormDataContentType(), &buf, nil)
}

// List reads the persisted photo references of one record in display
// order, with locators resolved to absolute URLs
func (c *AssetClient) List(ctx context.Context, orderID int64, kind order.AssetOwnerKind, ownerID int64) ([]order.AssetRef, error) {
	var resp struct {
		Assets []struct {
			Locator string `json:"locator"`
		} `json:"assets"`
	}
	if err := c.client.doJSON(ctx, "GET", c.path(orderID, kind, ownerID), nil, &resp); err != nil {
		return nil, err
	}

	refs := make([]order.AssetRef, 0, len(resp.Assets))
	for _, a := range resp.Assets {
		if a.Locator == "" {
			return nil, fmt.Errorf("%w: empty asset locator", ErrBadResponse)
		}
		refs = append(refs, order.AssetRef{
			Locator: a.Locator,
			URL:     c.client.Resolve(a.Locator),
		})
	}
	return refs, nil
}

func (c *AssetClient) path(orderID int64, kind order.AssetOwnerKind, ownerID int64) string {
	return fmt.Sprintf("/orders/%d/%s/%d/assets", orderID, kind, ownerID)
}
