package repository

import "errors"

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

var (
	_ IUserRepository    = (*UserRepository)(nil)
	_ IUserRepository    = (*MongoUserRepository)(nil)
	_ IUserRepository    = (*MemoryUserRepository)(nil)
	_ IProductRepository = (*ProductRepository)(nil)
	_ IProductRepository = (*MongoProductRepository)(nil)
	_ IProductRepository = (*MemoryProductRepository)(nil)
)
