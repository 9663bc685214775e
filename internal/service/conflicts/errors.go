package conflicts

import "errors"

var (
	// ErrInternal возвращается при ошибке хранилища
	ErrInternal = errors.New("conflicts: internal error")
)
