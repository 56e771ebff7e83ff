// Package job 把任务文件编译为执行计划，并按顺序调用正面/牌背流水线。
package job

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ByLCY/cardsheet/binding"
	"github.com/ByLCY/cardsheet/config"
	"github.com/ByLCY/cardsheet/dsl"
	"github.com/ByLCY/cardsheet/layout"
)

// Kind 区分正面与牌背任务。
type Kind string

const (
	KindFront Kind = "front"
	KindBack  Kind = "back"
)

// Override 是任务块中的单个配置覆盖。
type Override struct {
	Key   string
	Value string
}

// Task 是一次流水线调用，路径已完成变量展开。
type Task struct {
	Kind      Kind
	Input     string
	Output    string
	Overrides []Override
	Line      int
}

// Plan 是编译后的任务文件。
type Plan struct {
	Name  string
	Tasks []Task
}

// Runner 执行单个流水线；sheet.Builder 即为其实现。
type Runner interface {
	Front(inputDir, output string, cfg layout.Config) error
	Back(input, output string, cfg layout.Config) error
}

// Load 读取并编译任务文件。相对路径以任务文件所在目录为基准。
func Load(path string, env map[string]any) (*Plan, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开任务文件 %s: %w", path, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("解析任务文件 %s 失败: %w", path, err)
	}
	plan, err := Compile(doc, env)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	plan.rebase(filepath.Dir(path))
	return plan, nil
}

// Compile 展开变量并生成执行计划。vars 段按出现顺序求值，后面的变量可以引用前面的变量与 env。
func Compile(doc *dsl.Document, env map[string]any) (*Plan, error) {
	if doc == nil {
		return nil, fmt.Errorf("任务文件为空")
	}
	if env == nil {
		env = map[string]any{}
	}
	scope := binding.Scope{"env": env}
	plan := &Plan{Name: doc.Name}

	for _, section := range doc.Sections {
		switch {
		case section.Vars != nil:
			for _, a := range section.Vars.Block.Assignments {
				if a.Key == "env" {
					return nil, fmt.Errorf("第 %d 行: env 为保留名称", a.Pos.Line)
				}
				val, err := binding.Expand(a.Value.Text(), scope)
				if err != nil {
					return nil, fmt.Errorf("第 %d 行: %w", a.Pos.Line, err)
				}
				scope[a.Key] = val
			}
		case section.Task != nil:
			task, err := compileTask(section.Task, scope)
			if err != nil {
				return nil, err
			}
			plan.Tasks = append(plan.Tasks, task)
		}
	}
	if len(plan.Tasks) == 0 {
		return nil, fmt.Errorf("任务文件 %s 中没有 front/back 任务", doc.Name)
	}
	return plan, nil
}

func compileTask(t *dsl.Task, scope binding.Scope) (Task, error) {
	line := t.Pos.Line
	input, err := binding.Expand(string(t.Input), scope)
	if err != nil {
		return Task{}, fmt.Errorf("第 %d 行: 输入路径: %w", line, err)
	}
	output, err := binding.Expand(string(t.Output), scope)
	if err != nil {
		return Task{}, fmt.Errorf("第 %d 行: 输出路径: %w", line, err)
	}
	if input == "" || output == "" {
		return Task{}, fmt.Errorf("第 %d 行: 输入与输出路径不能为空", line)
	}
	task := Task{Kind: Kind(t.Kind), Input: input, Output: output, Line: line}
	if t.Block != nil {
		for _, a := range t.Block.Assignments {
			val, err := binding.Expand(a.Value.Text(), scope)
			if err != nil {
				return Task{}, fmt.Errorf("第 %d 行: %s: %w", a.Pos.Line, a.Key, err)
			}
			task.Overrides = append(task.Overrides, Override{Key: a.Key, Value: val})
		}
	}
	return task, nil
}

func (p *Plan) rebase(dir string) {
	for i := range p.Tasks {
		p.Tasks[i].Input = rebasePath(dir, p.Tasks[i].Input)
		p.Tasks[i].Output = rebasePath(dir, p.Tasks[i].Output)
	}
}

func rebasePath(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// Config 在 profile 的副本上应用任务覆盖，返回该任务的排版配置。
func (t Task) Config(profile *config.File) (layout.Config, error) {
	f := profile.Clone()
	for _, o := range t.Overrides {
		if err := f.Set(string(t.Kind), o.Key, o.Value); err != nil {
			return layout.Config{}, fmt.Errorf("第 %d 行: %w", t.Line, err)
		}
	}
	if t.Kind == KindBack {
		return f.BackConfig()
	}
	return f.FrontConfig()
}

// Run 按顺序执行全部任务，遇到第一个失败即停止。
func (p *Plan) Run(r Runner, profile *config.File, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	if profile == nil {
		profile = config.Default()
	}
	for i, task := range p.Tasks {
		cfg, err := task.Config(profile)
		if err != nil {
			return fmt.Errorf("任务 %d (%s): %w", i+1, task.Kind, err)
		}
		log.Info("running task", "job", p.Name, "n", i+1, "kind", string(task.Kind), "input", task.Input, "output", task.Output)
		switch task.Kind {
		case KindFront:
			err = r.Front(task.Input, task.Output, cfg)
		case KindBack:
			err = r.Back(task.Input, task.Output, cfg)
		default:
			err = fmt.Errorf("未知的任务类型 %q", task.Kind)
		}
		if err != nil {
			return fmt.Errorf("任务 %d (%s %s): %w", i+1, task.Kind, task.Input, err)
		}
	}
	return nil
}
