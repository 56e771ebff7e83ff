package binding

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]*)\}`)

// Scope 保存可被 ${name} 或 ${env.NAME} 引用的值，值可以是字符串或嵌套的 map。
type Scope map[string]any

// UndefinedError 表示文本引用了作用域中不存在的名称。
type UndefinedError struct {
	Names []string
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("未定义的变量: %s", strings.Join(e.Names, ", "))
}

// Expand 将文本中的 ${path.to.value} 替换为作用域中的值。
// 与宽松的模板替换不同，任何无法解析的占位符都会返回 *UndefinedError。
func Expand(text string, scope Scope) (string, error) {
	var missing []string
	out := exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		path := strings.TrimSpace(groups[1])
		if path == "" {
			missing = append(missing, match)
			return match
		}
		val, ok := resolvePath(scope, path)
		if !ok {
			missing = append(missing, path)
			return match
		}
		return fmt.Sprint(val)
	})
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", &UndefinedError{Names: missing}
	}
	return out, nil
}

// EnvScope 把 KEY=VALUE 形式的环境变量列表转为 map，供 ${env.KEY} 使用。
func EnvScope(environ []string) map[string]any {
	out := make(map[string]any, len(environ))
	for _, kv := range environ {
		key, val, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		out[key] = val
	}
	return out
}

func resolvePath(scope Scope, path string) (any, bool) {
	var current any = map[string]any(scope)
	for _, segment := range strings.Split(path, ".") {
		var ok bool
		current, ok = descendMap(current, segment)
		if !ok {
			return nil, false
		}
	}
	switch current.(type) {
	case map[string]any, map[string]string:
		// 占位符必须落到标量上
		return nil, false
	}
	return current, true
}

func descendMap(current any, key string) (any, bool) {
	switch c := current.(type) {
	case map[string]any:
		val, ok := c[key]
		return val, ok
	case Scope:
		val, ok := c[key]
		return val, ok
	case map[string]string:
		val, ok := c[key]
		return val, ok
	default:
		return nil, false
	}
}
