package accounts

// RequireRole allows the call through only when the claims carry one of the
// allowed roles.
func RequireRole(claims AuthClaims, allowed ...Role) error {
	if claims == nil {
		return ErrAccessDenied()
	}
	for _, role := range allowed {
		if claims.HasRole(role) {
			return nil
		}
	}
	return ErrAccessDenied()
}

// RequireAtLeast allows the call through only when the claims' rank meets the
// minimum.
func RequireAtLeast(claims AuthClaims, minRole Role) error {
	if claims == nil || !claims.IsAtLeast(minRole) {
		return ErrAccessDenied()
	}
	return nil
}

// RequireManage allows the call through only when the claims' rank is
// strictly greater than the target's. Equal ranks are rejected.
func RequireManage(claims AuthClaims, target Role) error {
	if claims == nil || !claims.CanManage(target) {
		return ErrAccessDenied()
	}
	return nil
}

// RequireSelf allows the call through only when the claims belong to the
// given user.
func RequireSelf(claims AuthClaims, userID string) error {
	if claims == nil || userID == "" || claims.UserID() != userID {
		return ErrAccessDenied()
	}
	return nil
}

// RequireSelfOrManage allows owners through, and otherwise falls back to the
// strictly-greater rank rule.
func RequireSelfOrManage(claims AuthClaims, userID string, target Role) error {
	if err := RequireSelf(claims, userID); err == nil {
		return nil
	}
	return RequireManage(claims, target)
}
