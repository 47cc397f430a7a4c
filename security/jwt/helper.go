package jwt

import "time"

// getPayload extracts payload from token claims
func getPayload(claims map[string]any) (map[string]any, bool) {
	if payload, ok := claims["payload"].(map[string]any); ok {
		return payload, true
	}
	return nil, false
}

// getString safely extracts string value from payload
func getString(payload map[string]any, key string) string {
	if val, ok := payload[key].(string); ok {
		return val
	}
	return ""
}

// GetSubjectFromToken extracts subject (sub) from token claims
func GetSubjectFromToken(claims map[string]any) string {
	if sub, ok := claims["sub"].(string); ok {
		return sub
	}
	return ""
}

// GetUserIDFromToken extracts user ID from token claims
func GetUserIDFromToken(claims map[string]any) string {
	if payload, ok := getPayload(claims); ok {
		return getString(payload, "user_id")
	}
	return ""
}

// GetUsernameFromToken extracts username from token claims
func GetUsernameFromToken(claims map[string]any) string {
	if payload, ok := getPayload(claims); ok {
		return getString(payload, "username")
	}
	return ""
}

// GetExpirationFromToken extracts expiration time from token claims
func GetExpirationFromToken(claims map[string]any) time.Time {
	if exp, ok := claims["exp"].(float64); ok && exp > 0 {
		return time.Unix(int64(exp), 0)
	}
	return time.Time{}
}

// GetIssuedAtFromToken extracts issued at time from token claims
func GetIssuedAtFromToken(claims map[string]any) time.Time {
	if iat, ok := claims["iat"].(float64); ok && iat > 0 {
		return time.Unix(int64(iat), 0)
	}
	return time.Time{}
}

// IsAccessToken checks if token is an access token
func IsAccessToken(claims map[string]any) bool {
	return GetSubjectFromToken(claims) == "access"
}
