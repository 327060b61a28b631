package email

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// テンプレートファイル名
const (
	TemplateConfirmEmail = "confirm-email.html"
	TemplateWelcome      = "welcome.html"
)

// Renderer は固定ディレクトリ配下のHTMLテンプレートを描画する。
// テンプレートは送信時に都度読み込むため、プロセス再起動なしで差し替えできる。
// プレースホルダは {{name}} 形式で、渡されたキー→値のマッピングで置換する。
type Renderer struct {
	dir string
}

// NewRenderer はRendererを生成する。dirはテンプレートを配置したディレクトリ。
func NewRenderer(dir string) *Renderer {
	return &Renderer{dir: dir}
}

// Render は指定テンプレートを読み込み、プレースホルダを置換したHTMLを返す。
// マッピングにないプレースホルダはそのまま残る。
func (r *Renderer) Render(name string, vars map[string]string) (string, error) {
	data, err := os.ReadFile(filepath.Join(r.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to read email template %s: %w", name, err)
	}

	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{{"+k+"}}", v)
	}

	return strings.NewReplacer(pairs...).Replace(string(data)), nil
}
