// Package linkedin publishes member posts through the LinkedIn REST API.
//
// The flow is AuthURL -> authorization code -> access token -> author URN ->
// published UGC post. Every call takes its credentials as arguments; the
// client keeps no tokens.
package linkedin

import "strings"

const personURNPrefix = "urn:li:person:"

// Post is the content to publish on behalf of the token's member.
type Post struct {
	AccessToken string `json:"access_token"` // #nosec G117 - caller-supplied bearer token
	Content     string `json:"content"`
}

// PersonURN returns the author URN for a member id.
func PersonURN(memberID string) string {
	return personURNPrefix + memberID
}

// IsPersonURN reports whether s looks like a member author URN.
func IsPersonURN(s string) bool {
	return strings.HasPrefix(s, personURNPrefix) && len(s) > len(personURNPrefix)
}

// API request/response types

type ugcPost struct {
	Author          string          `json:"author"`
	LifecycleState  string          `json:"lifecycleState"`
	SpecificContent specificContent `json:"specificContent"`
	Visibility      visibility      `json:"visibility"`
}

type specificContent struct {
	ShareContent shareContent `json:"com.linkedin.ugc.ShareContent"`
}

type shareContent struct {
	ShareCommentary    shareCommentary `json:"shareCommentary"`
	ShareMediaCategory string          `json:"shareMediaCategory"`
}

type shareCommentary struct {
	Text string `json:"text"`
}

type visibility struct {
	MemberNetworkVisibility string `json:"com.linkedin.ugc.MemberNetworkVisibility"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope"`
}

type userInfoResponse struct {
	Sub  string `json:"sub"`
	Name string `json:"name"`
}

func newUGCPost(author, text string) ugcPost {
	return ugcPost{
		Author:         author,
		LifecycleState: "PUBLISHED",
		SpecificContent: specificContent{
			ShareContent: shareContent{
				ShareCommentary:    shareCommentary{Text: text},
				ShareMediaCategory: "NONE",
			},
		},
		Visibility: visibility{MemberNetworkVisibility: "PUBLIC"},
	}
}
