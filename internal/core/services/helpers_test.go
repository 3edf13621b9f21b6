package services

import "fmt"

// sequentialIDs возвращает генератор идентификаторов id-1, id-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// fakeAvatar возвращает предсказуемый аватар для проверок.
func fakeAvatar(name, seed string) string {
	return "avatar:" + name + ":" + seed
}
