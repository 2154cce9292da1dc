// Package contracts holds recorded upstream payloads for the LinkedIn and
// Facebook Graph endpoints crosspost calls. Tests serve them from fake
// upstreams so the clients are checked against the documented shapes rather
// than against shapes the tests invented.
package contracts

// LinkedInTokenContract is the POST /oauth/v2/accessToken success body.
const LinkedInTokenContract = `{
  "access_token": "AQUvlL_DYEzvT2wz1QJiEPeLioeA",
  "expires_in": 5184000,
  "scope": "openid,profile,w_member_social",
  "token_type": "Bearer",
  "id_token": "eyJ6aXAiOiJERUYiLCJlbmMiOiJBMjU2R0NNIiwiYWxnIjoiUlNBLU9BRVAifQ"
}`

// LinkedInUserInfoContract is the GET /v2/userinfo body for an OpenID token.
const LinkedInUserInfoContract = `{
  "sub": "782bbtaQ",
  "email_verified": true,
  "name": "John Doe",
  "locale": {"country": "US", "language": "en"},
  "given_name": "John",
  "family_name": "Doe"
}`

// LinkedInUGCPostRequestContract is the body POST /v2/ugcPosts expects for a
// public text share.
const LinkedInUGCPostRequestContract = `{
  "author": "urn:li:person:782bbtaQ",
  "lifecycleState": "PUBLISHED",
  "specificContent": {
    "com.linkedin.ugc.ShareContent": {
      "shareCommentary": {"text": "Hello World! This is my first Share on LinkedIn!"},
      "shareMediaCategory": "NONE"
    }
  },
  "visibility": {"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC"}
}`

// LinkedInUGCPostResponseContract is the 201 body of a created share.
const LinkedInUGCPostResponseContract = `{"id": "urn:li:share:6844785523593134080"}`

// LinkedInErrorContract is a typical LinkedIn REST error body.
const LinkedInErrorContract = `{
  "serviceErrorCode": 100,
  "message": "Not enough permissions to access: ugcPosts.CREATE.NO_VERSION",
  "status": 403
}`

// GraphTokenContract is the GET /oauth/access_token success body.
const GraphTokenContract = `{
  "access_token": "EAAGm0PX4ZCpsBAIZD",
  "token_type": "bearer",
  "expires_in": 5183944
}`

// GraphAccountsContract is the GET /me/accounts body.
const GraphAccountsContract = `{
  "data": [
    {
      "access_token": "EAAJjmJZCpage",
      "category": "Bakery",
      "category_list": [{"id": "2500", "name": "Bakery"}],
      "name": "Corner Bakery",
      "id": "134895793791914",
      "tasks": ["ANALYZE", "ADVERTISE", "MODERATE", "CREATE_CONTENT", "MANAGE"]
    }
  ],
  "paging": {"cursors": {"before": "MTM0ODk1NzkzNzkxOTE0", "after": "MTM0ODk1NzkzNzkxOTE0"}}
}`

// GraphPageContract is GET /{page-id}?fields=instagram_business_account.
const GraphPageContract = `{
  "instagram_business_account": {"id": "17841405822304914"},
  "id": "134895793791914"
}`

// GraphContainerContract is the POST /{ig-user-id}/media body.
const GraphContainerContract = `{"id": "17889455560051444"}`

// GraphPublishContract is the POST /{ig-user-id}/media_publish body.
const GraphPublishContract = `{"id": "17920238422030506"}`

// GraphErrorContract is the Graph error envelope.
const GraphErrorContract = `{
  "error": {
    "message": "Invalid OAuth access token - Cannot parse access token",
    "type": "OAuthException",
    "code": 190,
    "error_subcode": 460,
    "fbtrace_id": "AWswcVwbcqfgrSgjG80MtqJ"
  }
}`
