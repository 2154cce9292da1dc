package instagram

import (
	"context"
	"net/url"
)

// ListManagedPages returns every page the user administers, each with its
// page access token.
func (c *Client) ListManagedPages(ctx context.Context, userAccessToken string) ([]Page, error) {
	query := url.Values{}
	query.Set("fields", "id,name,access_token")
	query.Set("access_token", userAccessToken)

	var resp pagesResponse
	if err := c.get(ctx, "/me/accounts", query, "Facebook /me/accounts", &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return []Page{}, nil
	}
	return resp.Data, nil
}

// ResolveBusinessAccountID returns the Instagram business account linked to
// a page. ok is false, with a nil error, when the page has none linked.
func (c *Client) ResolveBusinessAccountID(ctx context.Context, pageID, pageAccessToken string) (id string, ok bool, err error) {
	query := url.Values{}
	query.Set("fields", "instagram_business_account")
	query.Set("access_token", pageAccessToken)

	var resp pageResponse
	if err := c.get(ctx, nodePath(pageID, ""), query, "Facebook page→IG account lookup", &resp); err != nil {
		return "", false, err
	}
	if resp.InstagramBusinessAccount == nil || resp.InstagramBusinessAccount.ID == "" {
		return "", false, nil
	}
	return resp.InstagramBusinessAccount.ID, true, nil
}
