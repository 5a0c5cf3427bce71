package redis

import "github.com/redis/go-redis/v9"

// tokenBucketScript implements the token bucket in Lua so that every service replica
// sharing an API key draws from the same bucket atomically.
//
// The clock is Redis' own TIME, so replicas with skewed clocks still agree on spacing.
//
// KEYS:
// - KEYS[1]: tokens key (e.g. "shodan_dispatch:apikey:<digest>:tokens")
// - KEYS[2]: last refill key (e.g. "shodan_dispatch:apikey:<digest>:last_refill")
//
// ARGV:
// - ARGV[1]: capacity, tokens refilled per window
// - ARGV[2]: window in milliseconds
// - ARGV[3]: TTL of both keys in milliseconds
//
// Returns: [allowed, retry_after_ms]
var tokenBucketScript = redis.NewScript(`
local tokens_key = KEYS[1]
local last_refill_key = KEYS[2]

local capacity = tonumber(ARGV[1])
local window_ms = tonumber(ARGV[2])
local ttl_ms = tonumber(ARGV[3])

local time = redis.call('TIME')
local now_ms = tonumber(time[1]) * 1000 + math.floor(tonumber(time[2]) / 1000)

-- a new bucket starts full
local tokens = tonumber(redis.call('GET', tokens_key)) or capacity
local last_refill = tonumber(redis.call('GET', last_refill_key)) or now_ms

local elapsed = math.max(0, now_ms - last_refill)
local refill_rate = capacity / window_ms
tokens = math.min(capacity, tokens + elapsed * refill_rate)

local allowed = 0
local retry_after_ms = 0
if tokens >= 1 - 1e-9 then
    allowed = 1
    tokens = math.max(0, tokens - 1)
else
    retry_after_ms = math.ceil((1 - tokens) / refill_rate)
end

-- the refill is persisted on denial too, otherwise it would be lost
redis.call('SET', tokens_key, tostring(tokens), 'PX', ttl_ms)
redis.call('SET', last_refill_key, tostring(now_ms), 'PX', ttl_ms)

return {allowed, retry_after_ms}
`)
