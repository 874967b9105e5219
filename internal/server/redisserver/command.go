package redisserver

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/voltkv-go/internal/core/domain"
	"github.com/yndnr/voltkv-go/internal/store"
	"github.com/yndnr/voltkv-go/internal/telemetry/metric"
)

// errReply converts an error into a RESP error line. ReplyErrors carry
// their own kind prefix; anything else becomes a generic ERR.
func errReply(err error) ErrorReply {
	var re *domain.ReplyError
	if errors.As(err, &re) {
		return ErrorReply(re.Error())
	}
	return ErrorReply("ERR " + err.Error())
}

// ipLimiters holds one token bucket per client IP.
type ipLimiters struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

func newIPLimiters(commandsPerSecond int) *ipLimiters {
	return &ipLimiters{
		buckets: make(map[string]*rate.Limiter),
		limit:   rate.Limit(commandsPerSecond),
		burst:   commandsPerSecond,
	}
}

// allow checks if a command from the given IP should be allowed.
func (l *ipLimiters) allow(ip string) bool {
	l.mu.Lock()
	b, ok := l.buckets[ip]
	if !ok {
		b = rate.NewLimiter(l.limit, l.burst)
		l.buckets[ip] = b
	}
	l.mu.Unlock()
	return b.Allow()
}

// commandSpec describes one registry entry: the handler plus the
// accepted argument count range (arguments after the command name;
// maxArgs of -1 means unbounded).
type commandSpec struct {
	handler func(*CommandHandler, *Conn, [][]byte) Reply
	minArgs int
	maxArgs int
}

// commands is the static command registry, built once at package init.
// Dispatch is a single map lookup followed by an arity check.
var commands = map[string]commandSpec{
	"PING":   {(*CommandHandler).cmdPing, 0, 0},
	"ECHO":   {(*CommandHandler).cmdEcho, 1, 1},
	"QUIT":   {(*CommandHandler).cmdQuit, 0, 0},
	"TYPE":   {(*CommandHandler).cmdType, 1, 1},
	"EXISTS": {(*CommandHandler).cmdExists, 1, -1},
	"DEL":    {(*CommandHandler).cmdDel, 1, -1},

	"SET":  {(*CommandHandler).cmdSet, 2, 2},
	"GET":  {(*CommandHandler).cmdGet, 1, 1},
	"INCR": {(*CommandHandler).cmdIncr, 1, 1},

	"RPUSH":  {(*CommandHandler).cmdRPush, 2, -1},
	"LPUSH":  {(*CommandHandler).cmdLPush, 2, -1},
	"LLEN":   {(*CommandHandler).cmdLLen, 1, 1},
	"LRANGE": {(*CommandHandler).cmdLRange, 3, 3},
	"LPOP":   {(*CommandHandler).cmdLPop, 1, 2},
	"BLPOP":  {(*CommandHandler).cmdBLPop, 2, 2},

	"XADD":   {(*CommandHandler).cmdXAdd, 4, -1},
	"XRANGE": {(*CommandHandler).cmdXRange, 3, 5},

	"SADD":        {(*CommandHandler).cmdSAdd, 2, -1},
	"SREM":        {(*CommandHandler).cmdSRem, 2, -1},
	"SCARD":       {(*CommandHandler).cmdSCard, 1, 1},
	"SMEMBERS":    {(*CommandHandler).cmdSMembers, 1, 1},
	"SISMEMBER":   {(*CommandHandler).cmdSIsMember, 2, 2},
	"SMOVE":       {(*CommandHandler).cmdSMove, 3, 3},
	"SDIFF":       {(*CommandHandler).cmdSDiff, 1, -1},
	"SINTER":      {(*CommandHandler).cmdSInter, 1, -1},
	"SUNION":      {(*CommandHandler).cmdSUnion, 1, -1},
	"SDIFFSTORE":  {(*CommandHandler).cmdSDiffStore, 2, -1},
	"SINTERSTORE": {(*CommandHandler).cmdSInterStore, 2, -1},
	"SUNIONSTORE": {(*CommandHandler).cmdSUnionStore, 2, -1},

	"FLUSHDB":  {(*CommandHandler).cmdFlushDB, 0, 1},
	"SHUTDOWN": {(*CommandHandler).cmdShutdown, 0, 1},
}

// CommandHandler executes client commands against the store.
type CommandHandler struct {
	store     *store.Store
	logger    *slog.Logger
	metrics   *metric.Registry
	limiters  *ipLimiters
	terminate func()
}

// NewCommandHandler creates a new CommandHandler. metrics may be nil.
// terminate is invoked by SHUTDOWN; a nil terminate makes SHUTDOWN
// close only the issuing connection.
func NewCommandHandler(st *store.Store, metrics *metric.Registry, terminate func(), rateLimit int, logger *slog.Logger) *CommandHandler {
	if logger == nil {
		logger = slog.Default()
	}

	var lim *ipLimiters
	if rateLimit > 0 {
		lim = newIPLimiters(rateLimit)
	}

	return &CommandHandler{
		store:     st,
		logger:    logger,
		metrics:   metrics,
		limiters:  lim,
		terminate: terminate,
	}
}

// Handle executes one command (RESP array of bulk strings) and writes
// the reply to the connection's buffered writer. The caller flushes.
func (h *CommandHandler) Handle(c *Conn, args [][]byte) {
	if len(args) == 0 {
		_ = WriteReply(c.bw, ErrorReply("ERR no command"))
		return
	}

	name := normalizeCommandName(args[0])
	spec, ok := commands[name]
	if !ok {
		h.logger.Debug("unknown command", "command", name, "remote", c.RemoteAddr())
		_ = WriteReply(c.bw, ErrorReply("ERR unknown command '"+name+"'"))
		return
	}

	nargs := len(args) - 1
	if nargs < spec.minArgs || (spec.maxArgs >= 0 && nargs > spec.maxArgs) {
		_ = WriteReply(c.bw, errReply(domain.WrongArity(strings.ToLower(name))))
		return
	}

	if h.limiters != nil && !h.limiters.allow(c.remoteIP()) {
		_ = WriteReply(c.bw, ErrorReply("ERR rate limit exceeded"))
		return
	}

	start := time.Now()
	reply := spec.handler(h, c, args[1:])

	if h.metrics != nil {
		h.metrics.CommandsTotal.WithLabelValues(name).Inc()
		h.metrics.CommandDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		if _, isErr := reply.(ErrorReply); isErr {
			h.metrics.CommandErrors.WithLabelValues(name).Inc()
		}
	}

	// A nil reply means the handler closed the connection itself
	// (QUIT, SHUTDOWN, or a disconnect observed during BLPOP).
	if reply == nil {
		return
	}
	_ = WriteReply(c.bw, reply)
}

func (h *CommandHandler) cmdPing(_ *Conn, _ [][]byte) Reply {
	return SimpleReply("PONG")
}

func (h *CommandHandler) cmdEcho(_ *Conn, args [][]byte) Reply {
	return BulkReply(args[0])
}

func (h *CommandHandler) cmdQuit(c *Conn, _ [][]byte) Reply {
	_ = WriteReply(c.bw, SimpleReply("OK"))
	_ = c.bw.Flush()
	_ = c.Close()
	return nil
}

func (h *CommandHandler) cmdType(_ *Conn, args [][]byte) Reply {
	return SimpleReply(h.store.Kind(string(args[0])).String())
}

func (h *CommandHandler) cmdExists(_ *Conn, args [][]byte) Reply {
	return IntegerReply(h.store.Exists(argStrings(args)...))
}

func (h *CommandHandler) cmdDel(_ *Conn, args [][]byte) Reply {
	return IntegerReply(h.store.Del(argStrings(args)...))
}

func (h *CommandHandler) cmdSet(_ *Conn, args [][]byte) Reply {
	h.store.Set(string(args[0]), args[1])
	return SimpleReply("OK")
}

func (h *CommandHandler) cmdGet(_ *Conn, args [][]byte) Reply {
	val, err := h.store.Get(string(args[0]))
	if err != nil {
		return errReply(err)
	}
	if val == nil {
		return NullBulk
	}
	return BulkReply(val)
}

func (h *CommandHandler) cmdIncr(_ *Conn, args [][]byte) Reply {
	n, err := h.store.Incr(string(args[0]))
	if err != nil {
		return errReply(err)
	}
	return IntegerReply(n)
}

func (h *CommandHandler) cmdRPush(_ *Conn, args [][]byte) Reply {
	n, err := h.store.PushBack(string(args[0]), args[1:]...)
	if err != nil {
		return errReply(err)
	}
	return IntegerReply(n)
}

func (h *CommandHandler) cmdLPush(_ *Conn, args [][]byte) Reply {
	n, err := h.store.PushFront(string(args[0]), args[1:]...)
	if err != nil {
		return errReply(err)
	}
	return IntegerReply(n)
}

func (h *CommandHandler) cmdLLen(_ *Conn, args [][]byte) Reply {
	n, err := h.store.ListLen(string(args[0]))
	if err != nil {
		return errReply(err)
	}
	return IntegerReply(n)
}

func (h *CommandHandler) cmdLRange(_ *Conn, args [][]byte) Reply {
	start, err1 := strconv.Atoi(string(args[1]))
	stop, err2 := strconv.Atoi(string(args[2]))
	if err1 != nil || err2 != nil {
		return errReply(domain.ErrNotInteger)
	}
	vals, err := h.store.ListRange(string(args[0]), start, stop)
	if err != nil {
		return errReply(err)
	}
	return BulkArray(vals...)
}

// LPOP key [count]
//
// Without count the front element comes back as a bulk reply (null bulk
// when the list is absent or empty). With count the reply is an array of
// up to count elements, empty when nothing was popped.
func (h *CommandHandler) cmdLPop(_ *Conn, args [][]byte) Reply {
	count := 1
	withCount := len(args) == 2
	if withCount {
		n, err := strconv.Atoi(string(args[1]))
		if err != nil || n < 0 {
			return errReply(domain.ErrNotInteger)
		}
		count = n
	}

	vals, err := h.store.PopFront(string(args[0]), count)
	if err != nil {
		return errReply(err)
	}
	if !withCount {
		if len(vals) == 0 {
			return NullBulk
		}
		return BulkReply(vals[0])
	}
	return BulkArray(vals...)
}

// BLPOP key timeout
//
// Pops immediately when the list has an element. Otherwise the
// connection suspends on a FIFO waiter until a push delivers an
// element, the timeout elapses (null array), or the client disconnects
// (no reply, waiter removed). When a delivery and the deadline race,
// data already handed to the waiter wins over the timeout.
func (h *CommandHandler) cmdBLPop(c *Conn, args [][]byte) Reply {
	key := string(args[0])
	timeout, err := parseTimeout(args[1])
	if err != nil {
		return errReply(err)
	}

	val, w, err := h.store.PopFrontOrWait(key)
	if err != nil {
		return errReply(err)
	}
	if w == nil {
		return BulkArray([]byte(key), val)
	}

	var timeoutC <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutC = timer.C
	}

	disconnected, stop := c.watchDisconnect()
	defer stop()

	select {
	case d := <-w.C():
		if h.metrics != nil {
			h.metrics.WaitersWoken.Inc()
		}
		return BulkArray([]byte(d.Key), d.Value)

	case <-timeoutC:
		if !h.store.CancelWait(w) {
			// A push handed us an element before the cancellation
			// took effect; the data wins.
			d := <-w.C()
			if h.metrics != nil {
				h.metrics.WaitersWoken.Inc()
			}
			return BulkArray([]byte(d.Key), d.Value)
		}
		if h.metrics != nil {
			h.metrics.WaitersTimedOut.Inc()
		}
		return NullArray

	case <-disconnected:
		if !h.store.CancelWait(w) {
			// Delivered but the client is gone; put the element back
			// at the front so no data is silently dropped.
			d := <-w.C()
			_, _ = h.store.PushFront(d.Key, d.Value)
		}
		_ = c.Close()
		return nil
	}
}

// parseTimeout parses a BLPOP timeout in (fractional) seconds. Zero
// means wait indefinitely.
func parseTimeout(arg []byte) (time.Duration, error) {
	secs, err := strconv.ParseFloat(string(arg), 64)
	if err != nil || secs < 0 {
		return 0, domain.NewReplyError(domain.KindErr, "timeout is not a float or out of range")
	}
	return time.Duration(secs * float64(time.Second)), nil
}

func (h *CommandHandler) cmdXAdd(_ *Conn, args [][]byte) Reply {
	if len(args)%2 != 0 {
		// key + id + field/value pairs is always an even count.
		return errReply(domain.WrongArity("xadd"))
	}

	spec, err := domain.ParseIDSpec(string(args[1]))
	if err != nil {
		return errReply(err)
	}

	fields := make([]domain.FieldValue, 0, (len(args)-2)/2)
	for i := 2; i < len(args); i += 2 {
		fields = append(fields, domain.FieldValue{
			Field: args[i],
			Value: args[i+1],
		})
	}

	id, err := h.store.StreamAdd(string(args[0]), spec, fields)
	if err != nil {
		return errReply(err)
	}
	return BulkReply(id.String())
}

func (h *CommandHandler) cmdXRange(_ *Conn, args [][]byte) Reply {
	start, err := domain.ParseRangeBound(string(args[1]), true)
	if err != nil {
		return errReply(err)
	}
	end, err := domain.ParseRangeBound(string(args[2]), false)
	if err != nil {
		return errReply(err)
	}

	count := 0
	if len(args) > 3 {
		if len(args) != 5 || normalizeCommandName(args[3]) != "COUNT" {
			return errReply(domain.ErrSyntax)
		}
		n, err := strconv.Atoi(string(args[4]))
		if err != nil {
			return errReply(domain.ErrNotInteger)
		}
		if n <= 0 {
			return NullBulk
		}
		count = n
	}

	entries, err := h.store.StreamRange(string(args[0]), start, end, count)
	if err != nil {
		return errReply(err)
	}

	out := make(ArrayReply, 0, len(entries))
	for _, e := range entries {
		flat := make(ArrayReply, 0, len(e.Fields)*2)
		for _, fv := range e.Fields {
			flat = append(flat, BulkReply(fv.Field), BulkReply(fv.Value))
		}
		out = append(out, ArrayReply{BulkReply(e.ID.String()), flat})
	}
	return out
}

func (h *CommandHandler) cmdSAdd(_ *Conn, args [][]byte) Reply {
	n, err := h.store.SetAdd(string(args[0]), argStrings(args[1:])...)
	if err != nil {
		return errReply(err)
	}
	return IntegerReply(n)
}

func (h *CommandHandler) cmdSRem(_ *Conn, args [][]byte) Reply {
	n, err := h.store.SetRemove(string(args[0]), argStrings(args[1:])...)
	if err != nil {
		return errReply(err)
	}
	return IntegerReply(n)
}

func (h *CommandHandler) cmdSCard(_ *Conn, args [][]byte) Reply {
	n, err := h.store.SetCard(string(args[0]))
	if err != nil {
		return errReply(err)
	}
	return IntegerReply(n)
}

func (h *CommandHandler) cmdSMembers(_ *Conn, args [][]byte) Reply {
	members, err := h.store.SetMembers(string(args[0]))
	if err != nil {
		return errReply(err)
	}
	return stringArray(members)
}

func (h *CommandHandler) cmdSIsMember(_ *Conn, args [][]byte) Reply {
	ok, err := h.store.SetIsMember(string(args[0]), string(args[1]))
	if err != nil {
		return errReply(err)
	}
	return boolReply(ok)
}

func (h *CommandHandler) cmdSMove(_ *Conn, args [][]byte) Reply {
	moved, err := h.store.SetMove(string(args[0]), string(args[1]), string(args[2]))
	if err != nil {
		return errReply(err)
	}
	return boolReply(moved)
}

func (h *CommandHandler) cmdSDiff(_ *Conn, args [][]byte) Reply {
	members, err := h.store.SetDiff(argStrings(args)...)
	if err != nil {
		return errReply(err)
	}
	return stringArray(members)
}

func (h *CommandHandler) cmdSInter(_ *Conn, args [][]byte) Reply {
	members, err := h.store.SetInter(argStrings(args)...)
	if err != nil {
		return errReply(err)
	}
	return stringArray(members)
}

func (h *CommandHandler) cmdSUnion(_ *Conn, args [][]byte) Reply {
	members, err := h.store.SetUnion(argStrings(args)...)
	if err != nil {
		return errReply(err)
	}
	return stringArray(members)
}

func (h *CommandHandler) cmdSDiffStore(_ *Conn, args [][]byte) Reply {
	return h.setStore(store.DiffStore, args)
}

func (h *CommandHandler) cmdSInterStore(_ *Conn, args [][]byte) Reply {
	return h.setStore(store.InterStore, args)
}

func (h *CommandHandler) cmdSUnionStore(_ *Conn, args [][]byte) Reply {
	return h.setStore(store.UnionStore, args)
}

func (h *CommandHandler) setStore(op store.SetStoreOp, args [][]byte) Reply {
	n, err := h.store.SetOpStore(op, string(args[0]), argStrings(args[1:])...)
	if err != nil {
		return errReply(err)
	}
	return IntegerReply(n)
}

// FLUSHDB [ASYNC|SYNC]
//
// Both forms flush synchronously; the single-owner store makes the
// distinction moot.
func (h *CommandHandler) cmdFlushDB(_ *Conn, args [][]byte) Reply {
	if len(args) == 1 {
		switch normalizeCommandName(args[0]) {
		case "ASYNC", "SYNC":
		default:
			return errReply(domain.ErrSyntax)
		}
	}
	h.store.Flush()
	return SimpleReply("OK")
}

// SHUTDOWN [NOSAVE|SAVE]
//
// Closes the issuing connection without a reply and triggers process
// termination.
func (h *CommandHandler) cmdShutdown(c *Conn, args [][]byte) Reply {
	if len(args) == 1 {
		switch normalizeCommandName(args[0]) {
		case "NOSAVE", "SAVE":
		default:
			return errReply(domain.ErrSyntax)
		}
	}
	h.logger.Info("shutdown requested", "remote", c.RemoteAddr())
	_ = c.bw.Flush()
	_ = c.Close()
	if h.terminate != nil {
		h.terminate()
	}
	return nil
}

func boolReply(b bool) Reply {
	if b {
		return IntegerReply(1)
	}
	return IntegerReply(0)
}

func stringArray(vals []string) ArrayReply {
	out := make(ArrayReply, 0, len(vals))
	for _, v := range vals {
		out = append(out, BulkReply(v))
	}
	return out
}

func argStrings(args [][]byte) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		out = append(out, string(a))
	}
	return out
}

