package service

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }
