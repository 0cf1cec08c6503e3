package users

const (
	userColumns = `id, username, display_name, email, role, avatar_url, password_hash, created_at, updated_at`

	queryCreateUser = `
		INSERT INTO users (username, display_name, email, role, avatar_url, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	queryFindByID = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`

	queryFindByUsername = `
		SELECT ` + userColumns + `
		FROM users
		WHERE username = $1
	`

	queryFindByEmail = `
		SELECT ` + userColumns + `
		FROM users
		WHERE lower(email) = lower($1)
	`

	queryFindByProviderSubject = `
		SELECT u.id, u.username, u.display_name, u.email, u.role, u.avatar_url, u.password_hash, u.created_at, u.updated_at
		FROM users u
		JOIN provider_identities pi ON pi.user_id = u.id
		WHERE pi.provider = $1 AND pi.subject = $2
	`

	// idempotent: re-linking the same (provider, subject) to the same user is a no-op
	queryLinkIdentity = `
		INSERT INTO provider_identities (user_id, provider, subject)
		VALUES ($1, $2, $3)
		ON CONFLICT (provider, subject) DO NOTHING
	`

	queryUpdateProfile = `
		UPDATE users
		SET display_name = $1, avatar_url = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING ` + userColumns

	queryUpdateRole = `
		UPDATE users
		SET role = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + userColumns

	queryListUsers = `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
)
