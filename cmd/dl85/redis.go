package main

import (
	"fmt"
	"strings"

	redis "gopkg.in/redis.v5"

	"github.com/vishalbelsare/pydl8.5/tree"
	"github.com/vishalbelsare/pydl8.5/tree/json"
	"github.com/vishalbelsare/pydl8.5/tree/redisstore"
)

const defaultRedisPrefix = "dl85tree"

/*
parseRedisLocation splits a redis://host:port/prefix URL into the
address to connect to and the key prefix trees are stored under. The
prefix path is optional and defaults to dl85tree.
*/
func parseRedisLocation(redisURL string) (string, string, error) {
	location := strings.TrimPrefix(redisURL, "redis://")
	prefix := defaultRedisPrefix
	if slash := strings.Index(location, "/"); slash >= 0 {
		if p := location[slash+1:]; p != "" {
			prefix = p
		}
		location = location[:slash]
	}
	if location == "" {
		return "", "", fmt.Errorf("parsing redis URL %s: no host available", redisURL)
	}
	return location, prefix, nil
}

// redisClient connects to the redis database a redis URL points at and
// returns the client and the key prefix trees are stored under.
func redisClient(redisURL string) (*redis.Client, string, error) {
	location, prefix, err := parseRedisLocation(redisURL)
	if err != nil {
		return nil, "", err
	}
	rc := redis.NewClient(&redis.Options{Addr: location})
	if err := rc.Ping().Err(); err != nil {
		rc.Close()
		return nil, "", fmt.Errorf("connecting to redis at %s: %v", location, err)
	}
	return rc, prefix, nil
}

func redisNodeStore(rc *redis.Client, prefix string) tree.NodeStore {
	return redisstore.New(rc, prefix, json.NodeEncodeDecoder{})
}

func redisRootKey(prefix string) string {
	return fmt.Sprintf("%s:root", prefix)
}

func setRedisTreeRoot(rc *redis.Client, prefix, rootID string) error {
	return rc.Set(redisRootKey(prefix), rootID, 0).Err()
}

func getRedisTreeRoot(rc *redis.Client, prefix string) (string, error) {
	rootID, err := rc.Get(redisRootKey(prefix)).Result()
	if err == redis.Nil {
		return "", fmt.Errorf("no tree root stored under %s", redisRootKey(prefix))
	}
	if err != nil {
		return "", fmt.Errorf("retrieving tree root from redis: %v", err)
	}
	return rootID, nil
}
