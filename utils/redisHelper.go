package utils

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/gamedex/catalog_backend/config"
)

func GetCacheLifespan() time.Duration {
	lifespan, err := strconv.Atoi(os.Getenv("CACHE_LIFESPAN"))
	if err != nil {
		lifespan = 1
	}
	return time.Duration(lifespan) * time.Hour
}

// get type name of struct
func GetTypeName[T any]() string {
	var v T
	return reflect.TypeOf(v).Name()
}

/* Redis */

// store instance, obj should be a pointer
func StoreRedis[T any](obj any, id int) error {
	key := GetTypeName[T]() + ":" + fmt.Sprint(id)
	return config.SetRedisObject(key, &obj, GetCacheLifespan())
}

// retrieve instance, nil result when not cached
func RetrieveRedis[T any](id int) (*T, error) {
	key := GetTypeName[T]() + ":" + fmt.Sprint(id)

	var obj T
	exists, err := config.GetRedisObject(key, &obj)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return &obj, nil
}

// drop the cached instance after a mutation
func RemoveRedis[T any](id int) error {
	key := GetTypeName[T]() + ":" + fmt.Sprint(id)
	return config.RemoveRedisKey(key)
}
