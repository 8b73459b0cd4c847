package redisserver

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/yndnr/respkv/internal/core/domain"
	"github.com/yndnr/respkv/internal/protocol/resp"
	"github.com/yndnr/respkv/internal/telemetry/metric"
)

// maxPXMillis keeps ms*time.Millisecond inside an int64.
const maxPXMillis = math.MaxInt64 / int64(time.Millisecond)

// Command is a decoded client request. The set of commands is closed:
// only the types in this file implement it.
type Command interface {
	command()
}

// Ping replies PONG, or echoes Message when HasMessage is set.
type Ping struct {
	Message    string
	HasMessage bool
}

// Echo replies with Message.
type Echo struct {
	Message string
}

// Set stores Value under Key. A zero TTL means the entry never expires.
type Set struct {
	Key   string
	Value string
	TTL   time.Duration
}

// Get looks up Key.
type Get struct {
	Key string
}

// CommandError is a request that was understood well enough to reject.
// Name is the upper-cased command name when one was present.
type CommandError struct {
	Name string
	Err  *domain.KVError
}

// Unknown is a well-formed request naming an unsupported command.
type Unknown struct {
	Name string
}

func (Ping) command()         {}
func (Echo) command()         {}
func (Set) command()          {}
func (Get) command()          {}
func (CommandError) command() {}
func (Unknown) command()      {}

// ToCommand interprets a parsed frame as a command.
//
// Only an array of bulk strings is a command. The first element selects
// the command case-insensitively. Shape problems are reported as
// CommandError so the connection can keep going.
func ToCommand(v resp.Value) Command {
	if v.Kind != resp.Array {
		return CommandError{Err: domain.ErrNotCommandArray}
	}
	if len(v.Elems) == 0 {
		return CommandError{Err: domain.ErrNoCommand}
	}

	args := make([]string, len(v.Elems))
	for i, e := range v.Elems {
		if e.Kind != resp.BulkString {
			return CommandError{Err: domain.ErrNotCommandArray}
		}
		args[i] = string(e.Bulk)
	}

	name := strings.ToUpper(args[0])
	switch name {
	case "PING":
		return parsePing(args)
	case "ECHO":
		if len(args) != 2 {
			return CommandError{Name: name, Err: domain.WrongArity(name)}
		}
		return Echo{Message: args[1]}
	case "SET":
		return parseSet(args)
	case "GET":
		if len(args) != 2 {
			return CommandError{Name: name, Err: domain.WrongArity(name)}
		}
		return Get{Key: args[1]}
	default:
		return Unknown{Name: args[0]}
	}
}

// PING [message]
func parsePing(args []string) Command {
	switch len(args) {
	case 1:
		return Ping{}
	case 2:
		return Ping{Message: args[1], HasMessage: true}
	default:
		return CommandError{Name: "PING", Err: domain.WrongArity("PING")}
	}
}

// SET <key> <value> [PX milliseconds]
func parseSet(args []string) Command {
	const name = "SET"

	if len(args) < 3 {
		return CommandError{Name: name, Err: domain.WrongArity(name)}
	}
	cmd := Set{Key: args[1], Value: args[2]}

	switch len(args) {
	case 3:
		return cmd
	case 5:
	default:
		// "SET k v PX" without a value, or trailing options.
		return CommandError{Name: name, Err: domain.ErrSyntax}
	}

	if !strings.EqualFold(args[3], "PX") {
		return CommandError{Name: name, Err: domain.ErrSyntax}
	}

	ms, err := strconv.ParseInt(args[4], 10, 64)
	if err != nil {
		return CommandError{Name: name, Err: domain.ErrNotInteger.WithCause(err)}
	}
	if ms <= 0 || ms > maxPXMillis {
		return CommandError{Name: name, Err: domain.InvalidExpire(name)}
	}

	cmd.TTL = time.Duration(ms) * time.Millisecond
	return cmd
}

// KV is the store the executor reads and writes.
type KV interface {
	Set(key, value string, ttl time.Duration)
	Get(key string) (string, bool)
}

// Executor runs commands against a shared KV and builds replies.
type Executor struct {
	kv      KV
	metrics *metric.Registry
}

// NewExecutor creates an executor. metrics may be nil.
func NewExecutor(kv KV, metrics *metric.Registry) *Executor {
	return &Executor{
		kv:      kv,
		metrics: metrics,
	}
}

// Handle interprets v and executes it.
func (e *Executor) Handle(v resp.Value) resp.Value {
	return e.Execute(ToCommand(v))
}

// Execute runs cmd and returns the reply frame. It never fails; errors
// are returned to the client as Error frames.
func (e *Executor) Execute(cmd Command) resp.Value {
	start := time.Now()
	reply := e.execute(cmd)

	status := metric.StatusOK
	if reply.Kind == resp.Error {
		status = metric.StatusError
	}
	e.metrics.RecordCommand(commandLabel(cmd), status, time.Since(start))

	return reply
}

func (e *Executor) execute(cmd Command) resp.Value {
	switch c := cmd.(type) {
	case Ping:
		if c.HasMessage {
			return resp.BulkStringValue(c.Message)
		}
		return resp.SimpleStringValue("PONG")
	case Echo:
		return resp.BulkStringValue(c.Message)
	case Set:
		e.kv.Set(c.Key, c.Value, c.TTL)
		return resp.SimpleStringValue("OK")
	case Get:
		value, ok := e.kv.Get(c.Key)
		if !ok {
			return resp.NullValue()
		}
		return resp.BulkStringValue(value)
	case CommandError:
		return resp.ErrorValue(c.Err.Error())
	case Unknown:
		return resp.ErrorValue(domain.UnknownCommand(c.Name).Error())
	default:
		panic("redisserver: unhandled command type")
	}
}

// commandLabel is the metric label for cmd. Unknown names are folded
// into one label to bound cardinality.
func commandLabel(cmd Command) string {
	switch c := cmd.(type) {
	case Ping:
		return "PING"
	case Echo:
		return "ECHO"
	case Set:
		return "SET"
	case Get:
		return "GET"
	case CommandError:
		if c.Name != "" {
			return c.Name
		}
		return "INVALID"
	default:
		return "UNKNOWN"
	}
}
