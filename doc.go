// Package supavacation はバケーションレンタル物件リスティングサービスの
// バックエンドAPI。メールリンク（マジックリンク）によるパスワードレス認証と、
// 認証済みユーザーによる物件リスティングの作成を提供する。
package supavacation
