package entity

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&User{},
		&ReaderProfile{},
		&JournalistProfile{},
		&EditorProfile{},
		&JournalistSubscription{},
		&Publisher{},
		&PublisherMember{},
		&Article{},
		&ResetToken{},
		&Notification{},
	}
}
