package usecase

import "fmt"

// ErrPersistence indicates a repository failure inside a notification use case
var ErrPersistence = fmt.Errorf("notification use case persistence error")
