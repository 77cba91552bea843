// Package gallery holds the fixed catalog of UI components shown on the
// /components pages, with the labels and usage notes those pages render.
package gallery

import (
	"showcase/internal/core"
)

// Example is one usage snippet on a component's detail page.
type Example struct {
	Title       string
	Description string
	Code        string
}

// Prop documents one property accepted by a component.
type Prop struct {
	Name        string
	Type        string
	Description string
}

// Detail is the long form of a catalog entry.
type Detail struct {
	core.Component
	Overview string
	Examples []Example
	Props    []Prop
}

var catalog = []core.Component{
	{
		ID:          "button",
		Name:        "Button",
		Description: "クリック可能なボタンコンポーネント。様々なサイズとスタイルをサポート。",
		Category:    core.ComponentForm,
		Status:      core.ComponentStable,
		Features:    []string{"サイズバリエーション", "バリアント", "無効化状態"},
	},
	{
		ID:          "input",
		Name:        "Input",
		Description: "テキスト入力フィールド。バリデーションとエラーハンドリングをサポート。",
		Category:    core.ComponentForm,
		Status:      core.ComponentStable,
		Features:    []string{"バリデーション", "エラーハンドリング", "サイズバリエーション"},
	},
	{
		ID:          "dialog",
		Name:        "Dialog",
		Description: "モーダルダイアログ。フォーカス管理とアクセシビリティを内蔵。",
		Category:    core.ComponentOverlay,
		Status:      core.ComponentStable,
		Features:    []string{"フォーカス管理", "アクセシビリティ"},
	},
	{
		ID:          "tabs",
		Name:        "Tabs",
		Description: "タブナビゲーション。キーボード操作とアクセシビリティをサポート。",
		Category:    core.ComponentNavigation,
		Status:      core.ComponentStable,
		Features:    []string{"キーボード操作", "アクセシビリティ"},
	},
	{
		ID:          "select",
		Name:        "Select",
		Description: "ドロップダウン選択コンポーネント。検索とフィルタリング機能付き。",
		Category:    core.ComponentForm,
		Status:      core.ComponentBeta,
		Features:    []string{"検索", "フィルタリング"},
	},
	{
		ID:          "accordion",
		Name:        "Accordion",
		Description: "折りたたみ可能なコンテンツセクション。アニメーション付き。",
		Category:    core.ComponentLayout,
		Status:      core.ComponentStable,
		Features:    []string{"アニメーション"},
	},
	{
		ID:          "alert-dialog",
		Name:        "Alert Dialog",
		Description: "確認や警告を表示するダイアログ。アクセシビリティ重視。",
		Category:    core.ComponentFeedback,
		Status:      core.ComponentStable,
		Features:    []string{"確認", "警告", "アクセシビリティ"},
	},
	{
		ID:          "menu",
		Name:        "Menu",
		Description: "ドロップダウンメニュー。サブメニューとキーボード操作をサポート。",
		Category:    core.ComponentNavigation,
		Status:      core.ComponentStable,
		Features:    []string{"サブメニュー", "キーボード操作"},
	},
}

var details = map[string]Detail{
	"button": {
		Overview: "Buttonコンポーネントは、ユーザーのアクションをトリガーするためのクリック可能な要素です。様々なサイズ、バリアント、状態をサポートしています。",
		Examples: []Example{
			{Title: "基本的な使い方", Description: "シンプルなボタンの例", Code: `<button class="btn">クリック</button>`},
			{Title: "サイズバリエーション", Description: "異なるサイズのボタン", Code: "<button class=\"btn btn-sm\">小</button>\n<button class=\"btn\">中</button>\n<button class=\"btn btn-lg\">大</button>"},
			{Title: "バリアント", Description: "異なるスタイルのボタン", Code: "<button class=\"btn\">プライマリ</button>\n<button class=\"btn btn-secondary\">セカンダリ</button>\n<button class=\"btn btn-outline\">アウトライン</button>"},
		},
		Props: []Prop{
			{Name: "className", Type: "string", Description: "カスタムCSSクラス"},
			{Name: "onClick", Type: "() => void", Description: "クリック時のハンドラ"},
			{Name: "disabled", Type: "boolean", Description: "無効化状態"},
		},
	},
	"input": {
		Overview: "Inputコンポーネントは、ユーザーからのテキスト入力を収集するためのフィールドです。バリデーションとエラーハンドリングをサポートしています。",
		Examples: []Example{
			{Title: "基本的な使い方", Description: "シンプルな入力フィールド", Code: `<input type="text" placeholder="テキストを入力...">`},
			{Title: "サイズバリエーション", Description: "異なるサイズの入力フィールド", Code: "<input class=\"input-sm\" placeholder=\"小\">\n<input placeholder=\"中\">\n<input class=\"input-lg\" placeholder=\"大\">"},
		},
		Props: []Prop{
			{Name: "type", Type: "string", Description: "入力タイプ（text, email, password等）"},
			{Name: "value", Type: "string", Description: "入力値"},
			{Name: "onChange", Type: "(e: ChangeEvent) => void", Description: "値変更時のハンドラ"},
			{Name: "placeholder", Type: "string", Description: "プレースホルダーテキスト"},
		},
	},
}

// Components returns a copy of the catalog in display order.
func Components() []core.Component {
	out := make([]core.Component, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the detail page content for id. Only documented entries
// have a detail page.
func Lookup(id string) (Detail, bool) {
	d, ok := details[id]
	if !ok {
		return Detail{}, false
	}
	for _, c := range catalog {
		if c.ID == id {
			d.Component = c
			return d, true
		}
	}
	return Detail{}, false
}

var categoryLabels = map[core.ComponentCategory]string{
	core.ComponentForm:       "フォーム",
	core.ComponentLayout:     "レイアウト",
	core.ComponentFeedback:   "フィードバック",
	core.ComponentNavigation: "ナビゲーション",
	core.ComponentOverlay:    "オーバーレイ",
}

// CategoryLabel returns the display name of a component category.
func CategoryLabel(c core.ComponentCategory) string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	if string(c) == core.SentinelAll {
		return "すべて"
	}
	return string(c)
}

// CategoryOption is one entry of the category filter with its total count.
type CategoryOption struct {
	Value string
	Label string
	Count int
}

// CategoryOptions lists "all" followed by every category, each with the
// number of catalog components it holds.
func CategoryOptions(components []core.Component) []CategoryOption {
	counts := core.CountByCategory(components)
	opts := []CategoryOption{{Value: core.SentinelAll, Label: CategoryLabel(core.SentinelAll), Count: len(components)}}
	for _, c := range core.ComponentCategories() {
		opts = append(opts, CategoryOption{Value: string(c), Label: CategoryLabel(c), Count: counts[c]})
	}
	return opts
}
