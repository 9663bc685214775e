package userservice

import "errors"

var (
	// ErrFamilyMemberNotFound возвращается, когда член семьи не найден у пользователя
	ErrFamilyMemberNotFound = errors.New("userservice client: family member not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("userservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("userservice client: invalid response")
)
